package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/logger"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStateRepository keeps session state in process memory.
// Entries are stored serialized so callers never share a *UserState.
type MemoryStateRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStateRepository creates an in-memory state repository; ttl <= 0 keeps entries forever
func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ repository.IUserState = (*MemoryStateRepository)(nil)

func (r *MemoryStateRepository) Get(_ context.Context, key string) (*model.UserState, error) {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok || r.expired(entry) {
		return model.NewUserState(), nil
	}
	state := model.NewUserState()
	if err := json.Unmarshal(entry.data, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *MemoryStateRepository) Save(_ context.Context, key string, state *model.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.mu.Lock()
	r.entries[key] = entry
	r.mu.Unlock()
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (r *MemoryStateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Purge drops expired entries and returns how many were removed
func (r *MemoryStateRepository) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, entry := range r.entries {
		if r.expired(entry) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}

// Run purges expired entries every interval until ctx is done
func (r *MemoryStateRepository) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Purge(); n > 0 {
				logger.GetLogger().WithField("removed", n).Debug("Purged expired session state")
			}
		}
	}
}

func (r *MemoryStateRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt)
}
