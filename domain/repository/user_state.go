package repository

import (
	"context"

	"nxt-watch/domain/model"
)

// IUserState persists per-session state (theme, saved videos, reactions) by session key
type IUserState interface {
	// Get returns the stored state, or a fresh state when none exists
	Get(ctx context.Context, key string) (*model.UserState, error)
	Save(ctx context.Context, key string, state *model.UserState) error
	Delete(ctx context.Context, key string) error
}
