package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/persistence"
	"nxt-watch/usecase"
)

var rahul = model.Session{Token: "abc123", Username: "rahul"}

func TestLibraryUseCase_ToggleThemeTwiceRestores(t *testing.T) {
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), new(MockVideoAPI), nil)
	ctx := context.Background()

	theme, err := uc.ToggleTheme(ctx, rahul)
	require.NoError(t, err)
	assert.True(t, theme.Dark)

	theme, err = uc.ToggleTheme(ctx, rahul)
	require.NoError(t, err)
	assert.False(t, theme.Dark)

	state, err := uc.State(ctx, rahul)
	require.NoError(t, err)
	assert.False(t, state.Theme.Dark)
}

func TestLibraryUseCase_ToggleSaveRoundTrip(t *testing.T) {
	api := new(MockVideoAPI)
	api.On("GetVideoDetails", mock.Anything, "abc123", "v1").Return(detail("v1", "Go"), nil).Once()
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), api, nil)
	ctx := context.Background()

	saved, count, err := uc.ToggleSave(ctx, rahul, "v1")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 1, count)

	state, err := uc.State(ctx, rahul)
	require.NoError(t, err)
	assert.True(t, state.SavedVideos.IsSaved("v1"))
	assert.Equal(t, "Go", state.SavedVideos.List()[0].Title)

	saved, count, err = uc.ToggleSave(ctx, rahul, "v1")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 0, count)

	api.AssertExpectations(t)
}

func TestLibraryUseCase_ToggleSaveReusesDetailScreen(t *testing.T) {
	api := new(MockVideoAPI)
	api.On("GetVideoDetails", mock.Anything, "abc123", "v1").Return(detail("v1", "Go"), nil).Once()
	screens := usecase.NewScreenRegistry(api, 0)
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), api, screens)
	ctx := context.Background()

	_, err := screens.For(rahul).Load(ctx, usecase.ScreenVideo, "v1")
	require.NoError(t, err)

	saved, _, err := uc.ToggleSave(ctx, rahul, "v1")
	require.NoError(t, err)
	assert.True(t, saved)
	api.AssertNumberOfCalls(t, "GetVideoDetails", 1)
}

func TestLibraryUseCase_ToggleSaveFetchFailure(t *testing.T) {
	api := new(MockVideoAPI)
	api.On("GetVideoDetails", mock.Anything, "abc123", "v1").Return(nil, model.ErrNetwork)
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), api, nil)

	_, _, err := uc.ToggleSave(context.Background(), rahul, "v1")
	assert.True(t, errors.Is(err, model.ErrNetwork))

	state, err := uc.State(context.Background(), rahul)
	require.NoError(t, err)
	assert.Equal(t, 0, state.SavedVideos.Len())
}

func TestLibraryUseCase_ConcurrentSavesKeepEveryVideo(t *testing.T) {
	api := new(MockVideoAPI)
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		api.On("GetVideoDetails", mock.Anything, "abc123", id).Return(detail(id, id), nil)
	}
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), api, nil)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _, err := uc.ToggleSave(context.Background(), rahul, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	state, err := uc.State(context.Background(), rahul)
	require.NoError(t, err)
	assert.Equal(t, len(ids), state.SavedVideos.Len())
}

func TestLibraryUseCase_React(t *testing.T) {
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), new(MockVideoAPI), nil)
	ctx := context.Background()

	r, err := uc.React(ctx, rahul, "v1", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionLike, r)

	r, err = uc.React(ctx, rahul, "v1", model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionDislike, r)

	r, err = uc.React(ctx, rahul, "v1", model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionNone, r)
}

func TestLibraryUseCase_DismissBanner(t *testing.T) {
	uc := usecase.NewLibraryUseCase(persistence.NewMemoryStateRepository(0), new(MockVideoAPI), nil)
	ctx := context.Background()

	require.NoError(t, uc.DismissBanner(ctx, rahul))
	state, err := uc.State(ctx, rahul)
	require.NoError(t, err)
	assert.True(t, state.BannerDismissed)
}
