package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/logger"
)

// Screen names
const (
	ScreenHome     = "home"
	ScreenTrending = "trending"
	ScreenGaming   = "gaming"
	ScreenVideo    = "video"
)

// ErrUnknownScreen is returned for a screen name outside the list above
var ErrUnknownScreen = errors.New("unknown screen")

// ScreenSet holds the screens of one session
type ScreenSet struct {
	Home     *Screen[[]model.Video]
	Trending *Screen[[]model.Video]
	Gaming   *Screen[[]model.Video]
	// Video is the detail screen. Its params are the video id.
	Video *Screen[*model.VideoDetail]

	lastUsed time.Time
}

// Publisher receives every status change of every screen of the session owning token
type Publisher func(token string, state ScreenState)

func newScreenSet(api repository.IVideoAPI, token string, publish Publisher) *ScreenSet {
	noVideos := func(v []model.Video) bool { return len(v) == 0 }
	set := &ScreenSet{
		Home: NewScreen(ScreenHome, func(ctx context.Context, search string) ([]model.Video, error) {
			return api.GetVideos(ctx, token, search)
		}, noVideos),
		Trending: NewScreen(ScreenTrending, func(ctx context.Context, _ string) ([]model.Video, error) {
			return api.GetTrendingVideos(ctx, token)
		}, nil),
		Gaming: NewScreen(ScreenGaming, func(ctx context.Context, _ string) ([]model.Video, error) {
			return api.GetGamingVideos(ctx, token)
		}, nil),
		Video: NewScreen(ScreenVideo, func(ctx context.Context, id string) (*model.VideoDetail, error) {
			return api.GetVideoDetails(ctx, token, id)
		}, nil),
	}
	if publish != nil {
		onList := func(s Snapshot[[]model.Video]) { publish(token, listState(s)) }
		set.Home.OnTransition(onList)
		set.Trending.OnTransition(onList)
		set.Gaming.OnTransition(onList)
		set.Video.OnTransition(func(s Snapshot[*model.VideoDetail]) { publish(token, detailState(s)) })
	}
	return set
}

// ScreenRegistry hands out the ScreenSet of a session and evicts idle ones
type ScreenRegistry struct {
	api     repository.IVideoAPI
	idleTTL time.Duration
	now     func() time.Time
	publish Publisher

	mu   sync.Mutex
	sets map[string]*ScreenSet
}

// NewScreenRegistry creates a registry. idleTTL <= 0 keeps sets until Drop.
func NewScreenRegistry(api repository.IVideoAPI, idleTTL time.Duration) *ScreenRegistry {
	return &ScreenRegistry{
		api:     api,
		idleTTL: idleTTL,
		now:     time.Now,
		sets:    make(map[string]*ScreenSet),
	}
}

// WithPublisher makes every screen created from now on report its transitions to publish (fluent)
func (r *ScreenRegistry) WithPublisher(publish Publisher) *ScreenRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish = publish
	return r
}

// For returns the screens of session, creating them on first use
func (r *ScreenRegistry) For(session model.Session) *ScreenSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[session.Token]
	if !ok {
		set = newScreenSet(r.api, session.Token, r.publish)
		r.sets[session.Token] = set
	}
	set.lastUsed = r.now()
	return set
}

// Drop forgets the screens of token
func (r *ScreenRegistry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, token)
}

// Len returns the number of live screen sets
func (r *ScreenRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

// Evict drops every set idle for longer than the ttl and returns how many went
func (r *ScreenRegistry) Evict() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idleTTL)
	n := 0
	for token, set := range r.sets {
		if set.lastUsed.Before(cutoff) {
			delete(r.sets, token)
			n++
		}
	}
	return n
}

// Run evicts idle sets every interval until ctx is done
func (r *ScreenRegistry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				logger.GetLogger().WithField("evicted", n).Debug("Evicted idle screen sets")
			}
		}
	}
}

// ScreenState is a screen snapshot flattened for handlers
type ScreenState struct {
	Name   string
	Status model.RequestStatus
	View   model.View
	Params string
	Videos []model.Video
	Video  *model.VideoDetail
	Err    error
	Seq    uint64
}

func listState(s Snapshot[[]model.Video]) ScreenState {
	return ScreenState{Name: s.Name, Status: s.Status, View: s.View(), Params: s.Params, Videos: s.Data, Err: s.Err, Seq: s.Seq}
}

func detailState(s Snapshot[*model.VideoDetail]) ScreenState {
	return ScreenState{Name: s.Name, Status: s.Status, View: s.View(), Params: s.Params, Video: s.Data, Err: s.Err, Seq: s.Seq}
}

// Load loads the named screen with params
func (set *ScreenSet) Load(ctx context.Context, name, params string) (ScreenState, error) {
	switch name {
	case ScreenHome:
		return listState(set.Home.Load(ctx, params)), nil
	case ScreenTrending:
		return listState(set.Trending.Load(ctx, params)), nil
	case ScreenGaming:
		return listState(set.Gaming.Load(ctx, params)), nil
	case ScreenVideo:
		return detailState(set.Video.Load(ctx, params)), nil
	}
	return ScreenState{}, fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

// Retry re-issues the last request of the named screen
func (set *ScreenSet) Retry(ctx context.Context, name string) (ScreenState, error) {
	switch name {
	case ScreenHome:
		return listState(set.Home.Retry(ctx)), nil
	case ScreenTrending:
		return listState(set.Trending.Retry(ctx)), nil
	case ScreenGaming:
		return listState(set.Gaming.Retry(ctx)), nil
	case ScreenVideo:
		return detailState(set.Video.Retry(ctx)), nil
	}
	return ScreenState{}, fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

// State returns the current state of the named screen without fetching
func (set *ScreenSet) State(name string) (ScreenState, error) {
	switch name {
	case ScreenHome:
		return listState(set.Home.Snapshot()), nil
	case ScreenTrending:
		return listState(set.Trending.Snapshot()), nil
	case ScreenGaming:
		return listState(set.Gaming.Snapshot()), nil
	case ScreenVideo:
		return detailState(set.Video.Snapshot()), nil
	}
	return ScreenState{}, fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}
