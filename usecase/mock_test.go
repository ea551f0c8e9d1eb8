package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nxt-watch/domain/model"
)

type MockVideoAPI struct {
	mock.Mock
}

func (m *MockVideoAPI) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockVideoAPI) GetVideos(ctx context.Context, token, search string) ([]model.Video, error) {
	args := m.Called(ctx, token, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoAPI) GetTrendingVideos(ctx context.Context, token string) ([]model.Video, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoAPI) GetGamingVideos(ctx context.Context, token string) ([]model.Video, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoAPI) GetVideoDetails(ctx context.Context, token, videoID string) (*model.VideoDetail, error) {
	args := m.Called(ctx, token, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoDetail), args.Error(1)
}

func detail(id, title string) *model.VideoDetail {
	return &model.VideoDetail{Video: model.Video{ID: id, Title: title}, Description: "about " + title}
}
