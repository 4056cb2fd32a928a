package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---- fake client ----

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *models.LoginResponse
	LoginErr error

	ListRet []models.User
	ListErr error

	GetRet *models.User
	GetErr error

	SearchRet []models.User
	SearchErr error

	DeptRet []models.User
	DeptErr error

	CreateRet *models.User
	CreateErr error

	UpdateRet *models.User
	UpdateErr error

	DeleteErr error

	// before hooks run inside the call, while the request is "in flight"
	BeforeCreate func()
	BeforeDelete func()
	BeforeUpdate func()

	// for argument checks
	Token          string
	LastLoginEmail string
	LastLoginPass  string
	LastKeyword    string
	LastDept       models.Department
	LastDraft      models.Draft
	LastEmail      string
	LastPatch      models.Patch
	LastDeleteID   int64
	Calls          int
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	f.Token = token
	f.mu.Unlock()
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	f.Calls++
	f.LastLoginEmail = email
	f.LastLoginPass = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	f.Calls++
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	f.Calls++
	return f.GetRet, f.GetErr
}

func (f *fakeClient) SearchUsers(ctx context.Context, keyword string) ([]models.User, error) {
	f.Calls++
	f.LastKeyword = keyword
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) GetUsersByDepartment(ctx context.Context, dept models.Department) ([]models.User, error) {
	f.Calls++
	f.LastDept = dept
	return f.DeptRet, f.DeptErr
}

func (f *fakeClient) CreateUser(ctx context.Context, draft models.Draft) (*models.User, error) {
	f.Calls++
	f.LastDraft = draft
	if f.BeforeCreate != nil {
		f.BeforeCreate()
	}
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, email string, patch models.Patch) (*models.User, error) {
	f.Calls++
	f.LastEmail = email
	f.LastPatch = patch
	if f.BeforeUpdate != nil {
		f.BeforeUpdate()
	}
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, id int64) error {
	f.Calls++
	f.LastDeleteID = id
	if f.BeforeDelete != nil {
		f.BeforeDelete()
	}
	return f.DeleteErr
}
