package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
)

// RedisStateRepository keeps session state in redis so several instances share it
type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateRepository creates a redis backed state repository; ttl <= 0 keeps keys forever
func NewRedisStateRepository(client *redis.Client, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{client: client, ttl: ttl}
}

var _ repository.IUserState = (*RedisStateRepository)(nil)

func (r *RedisStateRepository) Get(ctx context.Context, key string) (*model.UserState, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewUserState(), nil
		}
		return nil, fmt.Errorf("get state: %w", err)
	}
	state := model.NewUserState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, key string, state *model.UserState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
