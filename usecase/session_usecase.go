package usecase

import (
	"context"
	"strings"

	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/logger"
	"nxt-watch/infrastructure/utils"
)

// ISessionUseCase logs users in and out
type ISessionUseCase interface {
	Login(ctx context.Context, req model.ReqLogin) (model.Session, error)
	// Resolve turns a stored token into a session. ok is false when the token is empty or expired.
	Resolve(token string) (session model.Session, ok bool)
	Logout(ctx context.Context, session model.Session) error
}

// SessionUseCase implements ISessionUseCase against the remote API
type SessionUseCase struct {
	api     repository.IVideoAPI
	state   repository.IUserState
	screens *ScreenRegistry
}

// NewSessionUseCase creates a session use case. screens may be nil.
func NewSessionUseCase(api repository.IVideoAPI, state repository.IUserState, screens *ScreenRegistry) ISessionUseCase {
	return &SessionUseCase{api: api, state: state, screens: screens}
}

func (u *SessionUseCase) Login(ctx context.Context, req model.ReqLogin) (model.Session, error) {
	token, err := u.api.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return model.Session{}, err
	}
	session := utils.ParseSession(token)
	if session.Username == "" {
		session.Username = strings.TrimSpace(req.Username)
	}
	logger.GetLogger().WithField("username", session.Username).Info("User logged in")
	return session, nil
}

func (u *SessionUseCase) Resolve(token string) (model.Session, bool) {
	if token == "" {
		return model.Session{}, false
	}
	session := utils.ParseSession(token)
	if session.Expired(utils.GetCurrentTime()) {
		return model.Session{}, false
	}
	return session, true
}

func (u *SessionUseCase) Logout(ctx context.Context, session model.Session) error {
	if u.screens != nil {
		u.screens.Drop(session.Token)
	}
	if err := u.state.Delete(ctx, utils.SessionKey(session.Token)); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to delete session state")
		return err
	}
	logger.GetLogger().WithField("username", session.Username).Info("User logged out")
	return nil
}
