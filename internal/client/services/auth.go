package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/session"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Messages shown to the operator by the login screen.
const (
	LoginFailedMessage  = "Login failed. Please check your credentials and try again."
	AccessDeniedMessage = "You do not have access to this page."
)

var (
	ErrForbidden      = errors.New("admin role required")
	ErrNoSession      = errors.New("no saved session")
	ErrSessionExpired = errors.New("saved session expired")
)

// AuthorizationError is returned when the credentials were accepted but the
// account does not carry the admin role.
type AuthorizationError struct {
	Email string
	Roles []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s has roles [%s]", ErrForbidden, e.Email, strings.Join(e.Roles, ", "))
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrForbidden
}

// AuthService defines the login gate of the console.
//
// Contract:
//   - Login: authenticate against the backend, require the admin role and
//     persist the session.
//   - Restore: reuse a persisted session if it still grants admin access and
//     has not expired.
//   - Logout: forget the session locally.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*session.Session, error)
	Restore(ctx context.Context) (*session.Session, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Current() *session.Session
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	repo   session.Repository
	log    logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *session.Session
}

func NewAuthService(c client.Client, repo session.Repository, log logging.Logger) AuthService {
	return &authService{client: c, repo: repo, log: log, now: time.Now}
}

// Login sends the credentials; password is wiped once sent.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*session.Session, error) {
	resp, err := a.client.Login(ctx, email, string(password))
	common.WipeByteArray(password)
	if err != nil {
		a.log.Warn(ctx, "login rejected", "email", email, "err", err)
		return nil, fmt.Errorf("login error: %w", err)
	}

	if !resp.HasRole(common.AdminRole) {
		a.log.Warn(ctx, "login without admin role", "email", email, "roles", resp.Roles)
		return nil, &AuthorizationError{Email: email, Roles: resp.Roles}
	}

	s := session.Session{Token: resp.Token, Email: email, Roles: resp.Roles, SavedAt: a.now()}
	if err := a.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.install(&s)
	a.log.Info(ctx, "logged in", "email", email)
	return &s, nil
}

func (a *authService) Restore(ctx context.Context) (*session.Session, error) {
	s, err := a.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session loading error: %w", err)
	}
	if s == nil {
		return nil, ErrNoSession
	}

	if !s.HasRole(common.AdminRole) {
		a.forget(ctx)
		return nil, &AuthorizationError{Email: s.Email, Roles: s.Roles}
	}
	if tokenExpired(s.Token, a.now()) {
		a.forget(ctx)
		return nil, ErrSessionExpired
	}

	a.install(s)
	a.log.Debug(ctx, "session restored", "email", s.Email)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
	a.client.SetToken("")

	if err := a.repo.Clear(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (a *authService) IsAuthenticated() bool {
	return a.Current() != nil
}

func (a *authService) Current() *session.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return nil
	}
	s := *a.current
	return &s
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) install(s *session.Session) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
	a.client.SetToken(s.Token)
}

func (a *authService) forget(ctx context.Context) {
	if err := a.Logout(ctx); err != nil {
		a.log.Warn(ctx, "could not clear session", "err", err)
	}
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend stays the judge of validity. Opaque tokens never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
