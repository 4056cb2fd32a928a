package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/session"
	"github.com/dmitrijs2005/useradmin/internal/client/roster"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	current *session.Session

	loginEmail string
	loginPass  []byte
	loginErr   error

	restored   *session.Session
	restoreErr error

	logoutCalled bool
	closeCalled  bool
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (*session.Session, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.current = &session.Session{Token: "t", Email: email, Roles: []string{common.AdminRole}}
	return f.current, nil
}

func (f *fakeAuth) Restore(context.Context) (*session.Session, error) {
	if f.restored != nil {
		f.current = f.restored
		return f.restored, nil
	}
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return nil, services.ErrNoSession
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	f.current = nil
	return nil
}

func (f *fakeAuth) IsAuthenticated() bool { return f.current != nil }
func (f *fakeAuth) Current() *session.Session { return f.current }
func (f *fakeAuth) Close(ctx context.Context) error { f.closeCalled = true; return nil }

type fakeClient struct {
	ListRet []models.User
	ListErr error

	GetRet *models.User
	GetErr error

	SearchRet []models.User
	DeptRet   []models.User

	CreateErr error
	UpdateErr error
	DeleteErr error

	LastKeyword  string
	LastDept     models.Department
	LastDraft    models.Draft
	LastEmail    string
	LastPatch    models.Patch
	LastDeleteID int64
	Calls        []string
}

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) SetToken(string) {}
func (f *fakeClient) call(name string) { f.Calls = append(f.Calls, name) }
func (f *fakeClient) Login(context.Context, string, string) (*models.LoginResponse, error) {
	f.call("login")
	return &models.LoginResponse{}, nil
}

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) {
	f.call("list")
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.call("get")
	return f.GetRet, f.GetErr
}

func (f *fakeClient) SearchUsers(_ context.Context, keyword string) ([]models.User, error) {
	f.call("search")
	f.LastKeyword = keyword
	return f.SearchRet, nil
}

func (f *fakeClient) GetUsersByDepartment(_ context.Context, dept models.Department) ([]models.User, error) {
	f.call("department")
	f.LastDept = dept
	return f.DeptRet, nil
}

func (f *fakeClient) CreateUser(_ context.Context, d models.Draft) (*models.User, error) {
	f.call("create")
	f.LastDraft = d
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &models.User{
		ID: 100, Email: d.Email, FirstName: d.FirstName, LastName: d.LastName,
		Role: d.Role, Department: d.Department, CreatedAt: models.NewTimestamp(time.Now()),
	}, nil
}

func (f *fakeClient) UpdateUser(_ context.Context, email string, p models.Patch) (*models.User, error) {
	f.call("update")
	f.LastEmail, f.LastPatch = email, p
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return &models.User{Email: email}, nil
}

func (f *fakeClient) DeleteUser(_ context.Context, id int64) error {
	f.call("delete")
	f.LastDeleteID = id
	return f.DeleteErr
}

func makeUsers(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{
			ID:         int64(i + 1),
			Email:      fmt.Sprintf("user%02d@example.com", i+1),
			FirstName:  fmt.Sprintf("First%02d", i+1),
			LastName:   "Last",
			Role:       models.RoleEmployee,
			Department: models.DepartmentIT,
			CreatedAt:  models.NewTimestamp(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		}
	}
	return out
}

type testApp struct {
	*App
	auth   *fakeAuth
	client *fakeClient
	out    *bytes.Buffer
}

// newTestApp builds a signed-in console over users. input feeds every prompt.
func newTestApp(t *testing.T, users []models.User, pageSize int, input string) *testApp {
	t.Helper()

	v, err := form.NewValidator()
	require.NoError(t, err)

	store := roster.NewStore()
	require.NoError(t, store.Replace(users))

	fc := &fakeClient{}
	fa := &fakeAuth{current: &session.Session{Email: "admin@example.com", Roles: []string{common.AdminRole}}}
	ds := services.NewDirectoryService(fc, store, v, services.ModeConfirmed, logging.Nop())

	var out bytes.Buffer
	a, err := NewApp(fa, ds, v, pageSize, logging.Nop(), strings.NewReader(input), &out)
	require.NoError(t, err)
	t.Cleanup(a.unsubscribe)

	return &testApp{App: a, auth: fa, client: fc, out: &out}
}
