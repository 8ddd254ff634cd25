// Package services contains application services for the journal client.
// This file defines the authentication service: login, session probe,
// logout and the startup session check.
package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/myjournal/internal/client/client"
	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/session"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

// LoginPath is where Logout sends the user when asked to navigate.
const LoginPath = "/login"

// Navigator moves the user to another page.
type Navigator interface {
	NavigateByURL(ctx context.Context, path string) error
}

// AuthService defines authentication operations for the client.
//
// Contract:
//   - Login: authenticate and make the returned user current.
//   - Me: confirm the session with the server; any failure logs out locally.
//   - Logout: end the session on the server if possible and always locally.
//   - Initialize: probe the server once at startup when no user is cached.
//
// All methods must honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Me(ctx context.Context) *models.User
	Logout(ctx context.Context, navigate bool)
	Initialize(ctx context.Context)
	SetNavigator(n Navigator)
}

type authService struct {
	client client.Client
	cache  *session.Cache
	log    logging.Logger

	mu          sync.RWMutex
	nav         Navigator
	initialized atomic.Bool
}

// NewAuthService constructs an AuthService bound to the given API client and
// session cache.
func NewAuthService(c client.Client, cache *session.Cache, log logging.Logger) AuthService {
	return &authService{client: c, cache: cache, log: log}
}

func (a *authService) SetNavigator(n Navigator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nav = n
}

// Login leaves the session untouched when it fails.
func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.log.Info(ctx, "login failed", "username", username, "error", err)
		return nil, err
	}
	a.cache.SetUser(ctx, u)
	a.log.Info(ctx, "logged in", "username", u.Username)
	return u, nil
}

func (a *authService) Me(ctx context.Context) *models.User {
	u, err := a.client.Me(ctx)
	if err == nil && u == nil {
		err = client.ErrNoUser
	}
	if err != nil {
		a.log.Debug(ctx, "session probe failed", "error", err)
		a.Logout(ctx, false)
		return nil
	}
	a.cache.SetUser(ctx, u)
	return u
}

// Logout is best effort on the server side and never fails.
func (a *authService) Logout(ctx context.Context, navigate bool) {
	if err := a.client.Logout(client.WithoutUnauthorizedHook(ctx)); err != nil {
		a.log.Debug(ctx, "server logout failed", "error", err)
	}
	a.cache.SetUser(ctx, nil)

	if !navigate {
		return
	}
	a.mu.RLock()
	nav := a.nav
	a.mu.RUnlock()
	if nav == nil {
		return
	}
	if err := nav.NavigateByURL(ctx, LoginPath); err != nil {
		a.log.Warn(ctx, "navigation after logout failed", "error", err)
	}
}

// Initialize only does work on its first call.
func (a *authService) Initialize(ctx context.Context) {
	if !a.initialized.CompareAndSwap(false, true) {
		return
	}
	if a.cache.IsAuthenticated() {
		return
	}
	if u := a.Me(ctx); u != nil {
		a.log.Info(ctx, "session restored", "username", u.Username)
	}
}
