package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
)

const (
	usersPath     = "/api/users"
	maxErrorBytes = 64 << 10
)

// bearerTransport adds the current access token to every outgoing request.
type bearerTransport struct {
	mu    sync.RWMutex
	token string
	next  http.RoundTripper
}

func (t *bearerTransport) setToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()

	if token == "" || req.Header.Get(common.AuthorizationHeaderName) != "" {
		return t.next.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return t.next.RoundTrip(r)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	auth    *bearerTransport
}

// NewHTTPClient returns a client for the API rooted at baseURL. A zero
// timeout leaves the transport default in place.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	return newHTTPClient(baseURL, timeout, http.DefaultTransport)
}

func newHTTPClient(baseURL string, timeout time.Duration, rt http.RoundTripper) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	auth := &bearerTransport{next: rt}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Transport: auth, Timeout: timeout},
		auth:    auth,
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.auth.setToken(token)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, usersPath+"/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, "list users", http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "get user", http.MethodGet, userPath(strconv.FormatInt(id, 10)), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) SearchUsers(ctx context.Context, keyword string) ([]models.User, error) {
	var users []models.User
	path := usersPath + "/search?keyword=" + url.QueryEscape(keyword)
	if err := c.do(ctx, "search users", http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) GetUsersByDepartment(ctx context.Context, dept models.Department) ([]models.User, error) {
	var users []models.User
	path := usersPath + "/department/" + url.PathEscape(string(dept))
	if err := c.do(ctx, "users by department", http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, draft models.Draft) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "create user", http.MethodPost, usersPath, draft, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, email string, patch models.Patch) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "update user", http.MethodPut, userPath(email), patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "delete user", http.MethodDelete, userPath(strconv.FormatInt(id, 10)), nil, nil)
}

func userPath(key string) string {
	return usersPath + "/" + url.PathEscape(key)
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// mapError turns a non-2xx response into a *ServiceError, taking the message
// from a JSON {"message"} or {"error"} body, the plain body, or the status
// text, in that order.
func mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	if msg == "" && !json.Valid(raw) {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &ServiceError{Status: resp.StatusCode, Message: msg}
}
