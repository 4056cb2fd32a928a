package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/devapi/auth"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin",
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := testConfig()
	store := NewStore()
	require.NoError(t, Seed(store, cfg))
	return NewHandler(cfg, store, logging.Nop())
}

func serve(t *testing.T, h *Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h *Handler, email, password string) models.LoginResponse {
	t.Helper()
	rec := serve(t, h, http.MethodPost, "/api/users/login", "", models.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Login(t *testing.T) {
	h := newTestHandler(t)

	admin := login(t, h, "admin@example.com", "admin")
	assert.NotEmpty(t, admin.Token)
	assert.Equal(t, []string{"ROLE_ADMIN"}, admin.Roles)

	emp := login(t, h, "employee@example.com", "employee")
	assert.Equal(t, []string{"ROLE_EMPLOYEE"}, emp.Roles)

	rec := serve(t, h, http.MethodPost, "/api/users/login", "", models.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid email or password"}`, rec.Body.String())

	rec = serve(t, h, http.MethodPost, "/api/users/login", "", map[string]string{"user": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AuthAndRoleGate(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(t, h, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, h, http.MethodGet, "/api/users", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := auth.GenerateToken("admin@example.com", []string{"ROLE_ADMIN"}, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)
	rec = serve(t, h, http.MethodGet, "/api/users", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")

	emp := login(t, h, "employee@example.com", "employee")
	rec = serve(t, h, http.MethodGet, "/api/users", emp.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_ListSearchDepartment(t *testing.T) {
	h := newTestHandler(t)
	token := login(t, h, "admin@example.com", "admin").Token

	var users []models.User
	rec := serve(t, h, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, len(h.store.List()))

	rec = serve(t, h, http.MethodGet, "/api/users/search?keyword=ross", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "hanna.ross@example.com", users[0].Email)

	rec = serve(t, h, http.MethodGet, "/api/users/department/FINANCE", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rec = serve(t, h, http.MethodGet, "/api/users/department/LEGAL", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CRUD(t *testing.T) {
	h := newTestHandler(t)
	token := login(t, h, "admin@example.com", "admin").Token

	d := models.Draft{Email: "new@x.com", FirstName: "New", LastName: "Person", Role: models.RoleEmployee, Department: models.DepartmentHR}
	rec := serve(t, h, http.MethodPost, "/api/users", token, d)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "new@x.com", created.Email)

	rec = serve(t, h, http.MethodPost, "/api/users", token, d)
	assert.Equal(t, http.StatusConflict, rec.Code)

	name := "Renamed"
	rec = serve(t, h, http.MethodPut, "/api/users/new@x.com", token, models.Patch{FirstName: &name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.NotNil(t, updated.UpdatedAt)

	rec = serve(t, h, http.MethodPut, "/api/users/ghost@x.com", token, models.Patch{FirstName: &name})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	path := "/api/users/" + jsonID(created.ID)
	rec = serve(t, h, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, h, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, h, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodDelete, "/api/users/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)
	token := login(t, h, "admin@example.com", "admin").Token

	rec := serve(t, h, http.MethodPost, "/api/users", token, models.Draft{Email: "", Role: models.RoleEmployee, Department: models.DepartmentIT})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, http.MethodPost, "/api/users", token, models.Draft{Email: "a@x.com", Role: "ROLE_GOD", Department: models.DepartmentIT})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
