package usecase

import (
	"context"
	"fmt"
	"sync"

	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/logger"
	"nxt-watch/infrastructure/utils"
)

// ILibraryUseCase owns the per-session state: theme, saved videos, reactions and the banner flag
type ILibraryUseCase interface {
	State(ctx context.Context, session model.Session) (*model.UserState, error)
	ToggleTheme(ctx context.Context, session model.Session) (model.Theme, error)
	// ToggleSave flips membership of videoID in the saved collection and reports whether it is saved afterwards
	ToggleSave(ctx context.Context, session model.Session, videoID string) (saved bool, count int, err error)
	React(ctx context.Context, session model.Session, videoID string, reaction model.Reaction) (model.Reaction, error)
	DismissBanner(ctx context.Context, session model.Session) error
}

// LibraryUseCase serializes writers per session key so one container only ever has a single writer
type LibraryUseCase struct {
	state   repository.IUserState
	api     repository.IVideoAPI
	screens *ScreenRegistry
	locks   *keyedMutex
}

// NewLibraryUseCase creates the use case. screens lets ToggleSave reuse an already fetched detail; it may be nil.
func NewLibraryUseCase(state repository.IUserState, api repository.IVideoAPI, screens *ScreenRegistry) ILibraryUseCase {
	return &LibraryUseCase{state: state, api: api, screens: screens, locks: newKeyedMutex()}
}

func (u *LibraryUseCase) State(ctx context.Context, session model.Session) (*model.UserState, error) {
	return u.state.Get(ctx, utils.SessionKey(session.Token))
}

func (u *LibraryUseCase) ToggleTheme(ctx context.Context, session model.Session) (model.Theme, error) {
	var theme model.Theme
	err := u.update(ctx, session, func(s *model.UserState) error {
		s.Theme.Toggle()
		theme = s.Theme
		return nil
	})
	return theme, err
}

func (u *LibraryUseCase) ToggleSave(ctx context.Context, session model.Session, videoID string) (bool, int, error) {
	current, err := u.State(ctx, session)
	if err != nil {
		return false, 0, err
	}
	var detail *model.VideoDetail
	if !current.SavedVideos.IsSaved(videoID) {
		if detail, err = u.detail(ctx, session, videoID); err != nil {
			return false, 0, err
		}
	}

	var saved bool
	var count int
	err = u.update(ctx, session, func(s *model.UserState) error {
		if s.SavedVideos.IsSaved(videoID) {
			s.SavedVideos.Remove(videoID)
		} else {
			if detail == nil {
				// removed concurrently between the read and the lock
				if detail, err = u.detail(ctx, session, videoID); err != nil {
					return err
				}
			}
			s.SavedVideos.Add(*detail)
		}
		saved = s.SavedVideos.IsSaved(videoID)
		count = s.SavedVideos.Len()
		return nil
	})
	return saved, count, err
}

func (u *LibraryUseCase) React(ctx context.Context, session model.Session, videoID string, reaction model.Reaction) (model.Reaction, error) {
	var result model.Reaction
	err := u.update(ctx, session, func(s *model.UserState) error {
		result = s.React(videoID, reaction)
		return nil
	})
	return result, err
}

func (u *LibraryUseCase) DismissBanner(ctx context.Context, session model.Session) error {
	return u.update(ctx, session, func(s *model.UserState) error {
		s.BannerDismissed = true
		return nil
	})
}

func (u *LibraryUseCase) update(ctx context.Context, session model.Session, fn func(*model.UserState) error) error {
	key := utils.SessionKey(session.Token)
	unlock := u.locks.Lock(key)
	defer unlock()

	state, err := u.state.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	state.UpdatedAt = utils.GetCurrentTime()
	if err := u.state.Save(ctx, key, state); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to save session state")
		return err
	}
	return nil
}

// detail returns the video being saved, preferring what the detail screen already holds
func (u *LibraryUseCase) detail(ctx context.Context, session model.Session, videoID string) (*model.VideoDetail, error) {
	if u.screens != nil {
		snap := u.screens.For(session).Video.Snapshot()
		if snap.Status == model.RequestStatusSuccess && snap.Data != nil && snap.Data.ID == videoID {
			return snap.Data, nil
		}
	}
	detail, err := u.api.GetVideoDetails(ctx, session.Token, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	return detail, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock locks key and returns its unlock func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
