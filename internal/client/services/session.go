// Package services contains application services for the BitNet client.
// This file defines the session service: register, login, logout and the
// locally persisted token and user profile.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

var ErrNotLoggedIn = errors.New("not logged in")

// KV is the client key/value store. SetMany writes all pairs atomically.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// AuthAPI is the part of the HTTP API the session service needs.
type AuthAPI interface {
	SetToken(token string)
	Register(ctx context.Context, in api.RegisterRequest) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (*api.ForgotResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// SessionService defines session operations for the CLI.
//
// Contract:
//   - Restore: load the persisted token and user, if any.
//   - Register / Login: authenticate and persist authToken and userData.
//   - Logout: forget the session locally.
//   - RefreshProfile / UpdateProfile: fetch or change the server profile and
//     refresh the cached copy.
//
// All methods must honor context cancellation/timeouts.
type SessionService interface {
	Restore(ctx context.Context) (*models.User, error)
	Register(ctx context.Context, in api.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (*api.ForgotResult, error)
	ResetPassword(ctx context.Context, token string, newPassword []byte) error
	User() *models.User
}

type sessionService struct {
	api   AuthAPI
	store KV
	log   logging.Logger

	mu   sync.RWMutex
	user *models.User
}

func NewSessionService(a AuthAPI, store KV, log logging.Logger) SessionService {
	return &sessionService{api: a, store: store, log: log.With("module", "session")}
}

func (s *sessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *sessionService) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Restore returns ErrNotLoggedIn when no token is stored. A token without a
// readable user record still restores the session; RefreshProfile fills it in.
func (s *sessionService) Restore(ctx context.Context) (*models.User, error) {
	token, err := s.store.Get(ctx, metadata.KeyAuthToken)
	if errors.Is(err, common.ErrNotFound) || (err == nil && len(token) == 0) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	s.api.SetToken(string(token))

	u := &models.User{}
	raw, err := s.store.Get(ctx, metadata.KeyUserData)
	if err == nil {
		err = json.Unmarshal(raw, u)
	}
	if err != nil {
		s.log.Warn(ctx, "cached user unreadable", "error", err)
		u = nil
	}
	s.setUser(u)
	return s.User(), nil
}

func (s *sessionService) persist(ctx context.Context, token string, u *models.User) error {
	values := map[string][]byte{}
	if token != "" {
		values[metadata.KeyAuthToken] = []byte(token)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	values[metadata.KeyUserData] = raw
	return s.store.SetMany(ctx, values)
}

func (s *sessionService) start(ctx context.Context, res *api.AuthResult) (*models.User, error) {
	s.api.SetToken(res.Token)
	u := res.User
	if err := s.persist(ctx, res.Token, &u); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	s.setUser(&u)
	s.log.Info(ctx, "session started", "user_id", u.ID)
	return s.User(), nil
}

func (s *sessionService) Register(ctx context.Context, in api.RegisterRequest) (*models.User, error) {
	res, err := s.api.Register(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return s.start(ctx, res)
}

// Login wipes password before returning.
func (s *sessionService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	res, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return s.start(ctx, res)
}

// Logout always clears the in-memory session. A storage failure is returned
// after that.
func (s *sessionService) Logout(ctx context.Context) error {
	s.api.SetToken("")
	s.setUser(nil)
	if err := s.store.Delete(ctx, metadata.KeyAuthToken, metadata.KeyUserData); err != nil {
		s.log.Warn(ctx, "clearing session failed", "error", err)
		return err
	}
	return nil
}

func (s *sessionService) RefreshProfile(ctx context.Context) (*models.User, error) {
	u, err := s.api.Profile(ctx)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	if err := s.persist(ctx, "", u); err != nil {
		return nil, err
	}
	s.setUser(u)
	return s.User(), nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	u, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	if err := s.persist(ctx, "", u); err != nil {
		return nil, err
	}
	s.setUser(u)
	return s.User(), nil
}

// checkAuth drops the stored session when the server rejected the token.
func (s *sessionService) checkAuth(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		s.log.Info(ctx, "token rejected, logging out")
		_ = s.Logout(ctx)
	}
	return err
}

func (s *sessionService) ForgotPassword(ctx context.Context, email string) (*api.ForgotResult, error) {
	return s.api.ForgotPassword(ctx, email)
}

func (s *sessionService) ResetPassword(ctx context.Context, token string, newPassword []byte) error {
	defer common.WipeByteArray(newPassword)
	return s.api.ResetPassword(ctx, token, string(newPassword))
}
