// Package services contains application services for the ScholarSphere
// client. This file defines the session manager: access token freshness,
// silent renewal through the refresh cookie, login and logout.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/token"
	"github.com/dmitrijs2005/scholarsphere/internal/common"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// SessionManager answers "is this client authenticated?" and keeps the
// access token fresh.
//
// Contract:
//   - IsAuthenticated: true only if a non-expired token is held, renewing
//     first when none is held or the held one is expired or undecodable.
//   - RefreshToken: renew from the refresh cookie; on any failure the token
//     is cleared and false is returned.
//   - Login: install the token and cache the returned profile for display.
//   - Logout: best-effort backend notification, then unconditional local
//     de-authentication.
//   - AccessToken: read-only view of the held token.
//
// It is the only writer of the token store.
type SessionManager interface {
	IsAuthenticated(ctx context.Context) bool
	RefreshToken(ctx context.Context) bool
	Login(ctx context.Context, username string, password []byte, rememberMe bool) (*models.Faculty, error)
	Logout(ctx context.Context)
	AccessToken() string
}

// DisplayCache is the non-authoritative profile snapshot written on login.
type DisplayCache interface {
	Save(ctx context.Context, f *models.Faculty) error
	Load(ctx context.Context) *models.Faculty
	FacultyID(ctx context.Context) string
	Merge(ctx context.Context, f *models.Faculty) error
	Clear(ctx context.Context) error
}

type sessionManager struct {
	api   client.AuthAPI
	store token.Store
	cache DisplayCache
	log   logging.Logger
	now   func() time.Time

	// mu serializes freshness checks and token writes
	mu      sync.Mutex
	refresh singleflight.Group
}

type SessionOption func(*sessionManager)

// WithSessionClock replaces time.Now for expiry checks.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *sessionManager) { s.now = now }
}

// NewSessionManager constructs a SessionManager over the auth API, the
// in-memory token store and the display cache.
func NewSessionManager(api client.AuthAPI, store token.Store, cache DisplayCache, log logging.Logger, opts ...SessionOption) SessionManager {
	if log == nil {
		log = logging.Nop()
	}
	s := &sessionManager{api: api, store: store, cache: cache, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *sessionManager) AccessToken() string {
	return s.store.Get()
}

func (s *sessionManager) IsAuthenticated(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok := s.store.Get(); tok != "" && !s.expired(tok) {
		return true
	}
	if !s.RefreshToken(ctx) {
		return false
	}
	tok := s.store.Get()
	return tok != "" && !s.expired(tok)
}

// expired decodes the exp claim without verifying the signature; the
// backend remains the authority on validity. Tokens that cannot be decoded
// or carry no exp count as expired.
func (s *sessionManager) expired(tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !s.now().Before(exp.Time)
}

// RefreshToken coalesces overlapping calls into one backend request, so
// concurrent renewals never install two different tokens.
func (s *sessionManager) RefreshToken(ctx context.Context) bool {
	v, _, _ := s.refresh.Do("refresh", func() (any, error) {
		tok, err := s.api.Refresh(ctx)
		if err == nil && tok == "" {
			err = common.ErrInvalidToken
		}
		if err != nil {
			s.log.Debug(ctx, "token renewal failed", "error", err)
			s.store.Clear()
			return false, nil
		}
		s.store.Set(tok)
		return true, nil
	})
	ok, _ := v.(bool)
	return ok
}

func (s *sessionManager) Login(ctx context.Context, username string, password []byte, rememberMe bool) (*models.Faculty, error) {
	res, err := s.api.Login(ctx, strings.TrimSpace(username), password, rememberMe)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, common.ErrInvalidToken
	}

	s.mu.Lock()
	s.store.Set(res.AccessToken)
	s.mu.Unlock()

	if res.Faculty != nil && s.cache != nil {
		if err := s.cache.Save(ctx, res.Faculty); err != nil {
			s.log.Warn(ctx, "failed to cache profile snapshot", "error", err)
		}
	}

	s.log.Info(ctx, "logged in", "username", username)
	return res.Faculty, nil
}

func (s *sessionManager) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn(ctx, "backend logout failed, clearing local session anyway", "error", err)
	}

	s.mu.Lock()
	s.store.Clear()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear profile snapshot", "error", err)
		}
	}
}

// LoginField names the login form field a backend error refers to.
type LoginField string

const (
	LoginFieldNone     LoginField = ""
	LoginFieldUsername LoginField = "username"
	LoginFieldPassword LoginField = "password"
)

// ClassifyLoginError maps a backend login error onto the form field it
// concerns. Transport and other non-backend errors map to LoginFieldNone.
func ClassifyLoginError(err error) LoginField {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return LoginFieldNone
	}
	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "username"):
		return LoginFieldUsername
	case strings.Contains(msg, "password"):
		return LoginFieldPassword
	default:
		return LoginFieldNone
	}
}
