package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/session"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, fc *fakeClient) (*authService, *session.SQLiteRepository) {
	t.Helper()
	repo := session.NewSQLiteRepository(setupDB(t))
	svc := NewAuthService(fc, repo, logging.Nop()).(*authService)
	return svc, repo
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@x.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestLogin_AdminPersistsSessionAndInstallsToken(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T", Roles: []string{"ROLE_ADMIN"}}}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()

	pw := []byte("secret")
	s, err := svc.Login(ctx, "admin@x.com", pw)
	require.NoError(t, err)
	assert.Equal(t, "T", s.Token)
	assert.Equal(t, "secret", fc.LastLoginPass)
	assert.Equal(t, make([]byte, 6), pw, "password must be wiped")

	assert.Equal(t, "T", fc.Token)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "admin@x.com", svc.Current().Email)

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "T", saved.Token)
	assert.Equal(t, []string{"ROLE_ADMIN"}, saved.Roles)
}

func TestLogin_NonAdminIsForbiddenAndNotPersisted(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T", Roles: []string{"ROLE_EMPLOYEE"}}}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "emp@x.com", []byte("pw"))
	require.ErrorIs(t, err, ErrForbidden)
	var aerr *AuthorizationError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "emp@x.com", aerr.Email)

	assert.Empty(t, fc.Token)
	assert.False(t, svc.IsAuthenticated())
	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestLogin_BackendRejection(t *testing.T) {
	fc := &fakeClient{LoginErr: &client.ServiceError{Status: 401, Message: "bad credentials"}}
	svc, _ := newAuth(t, fc)

	_, err := svc.Login(context.Background(), "a@x.com", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.False(t, svc.IsAuthenticated())
}

func TestRestore_NoSession(t *testing.T) {
	svc, _ := newAuth(t, &fakeClient{})

	_, err := svc.Restore(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestRestore_ValidSessionInstallsToken(t *testing.T) {
	fc := &fakeClient{}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()
	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, repo.Save(ctx, session.Session{Token: tok, Email: "admin@x.com", Roles: []string{"ROLE_ADMIN"}}))

	s, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, s.Token)
	assert.Equal(t, tok, fc.Token)
	assert.True(t, svc.IsAuthenticated())
}

func TestRestore_OpaqueTokenAccepted(t *testing.T) {
	fc := &fakeClient{}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, session.Session{Token: "opaque", Roles: []string{"ROLE_ADMIN"}}))

	_, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque", fc.Token)
}

func TestRestore_ExpiredTokenIsCleared(t *testing.T) {
	fc := &fakeClient{}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, session.Session{Token: signedToken(t, time.Now().Add(-time.Minute)), Roles: []string{"ROLE_ADMIN"}}))

	_, err := svc.Restore(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, fc.Token)

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestRestore_NonAdminSessionIsCleared(t *testing.T) {
	svc, repo := newAuth(t, &fakeClient{})
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, session.Session{Token: "t", Roles: []string{"ROLE_EMPLOYEE"}}))

	_, err := svc.Restore(ctx)
	require.ErrorIs(t, err, ErrForbidden)
	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestLogout_ClearsEverything(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T", Roles: []string{"ROLE_ADMIN"}}}
	svc, repo := newAuth(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin@x.com", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, fc.Token)
	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Hour)), now))
	assert.False(t, tokenExpired("not-a-jwt", now))
}
