package repository

import (
	"context"

	"nxt-watch/domain/model"
)

// IVideoAPI is the remote video API the application consumes
type IVideoAPI interface {
	// Login exchanges credentials for a bearer token
	Login(ctx context.Context, username, password string) (string, error)

	// Video operations, all authenticated with token
	GetVideos(ctx context.Context, token, search string) ([]model.Video, error)
	GetTrendingVideos(ctx context.Context, token string) ([]model.Video, error)
	GetGamingVideos(ctx context.Context, token string) ([]model.Video, error)
	GetVideoDetails(ctx context.Context, token, videoID string) (*model.VideoDetail, error)
}
