package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type storedKey struct {
	status      string
	statusCode  int
	contentType string
	body        []byte
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]*storedKey
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]*storedKey)}
}

func (s *fakeIdempotencyStore) AcquireKey(_ context.Context, key, _, _, _ string) (*postgres.IdempotencyReplay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.keys[key]
	if !ok {
		s.keys[key] = &storedKey{status: "pending"}
		return nil, nil
	}
	if k.status == "pending" {
		return nil, apperror.NewIdempotencyConflict(key)
	}
	return &postgres.IdempotencyReplay{StatusCode: k.statusCode, ContentType: k.contentType, Body: k.body}, nil
}

func (s *fakeIdempotencyStore) finish(key, status string, code int, ct string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = &storedKey{status: status, statusCode: code, contentType: ct, body: append([]byte(nil), body...)}
	return nil
}

func (s *fakeIdempotencyStore) CompleteKey(_ context.Context, key string, code int, ct string, body []byte) error {
	return s.finish(key, "success", code, ct, body)
}

func (s *fakeIdempotencyStore) FailKey(_ context.Context, key string, code int, ct string, body []byte) error {
	return s.finish(key, "failed", code, ct, body)
}

func (s *fakeIdempotencyStore) ReleaseKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *fakeIdempotencyStore) get(key string) *storedKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func newIdempotentRouter(store IdempotencyStore, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	g := r.Group("")
	g.Use(Idempotency(store), ErrorHandler())
	g.POST("/docs/:id/validate", handler)
	g.GET("/docs/:id", handler)
	return r
}

func doRequest(r http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	r := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"status": "done", "call": calls})
	})

	first := doRequest(r, http.MethodPost, "/docs/1/validate", "k1", `{}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "success", store.get("k1").status)

	second := doRequest(r, http.MethodPost, "/docs/1/validate", "k1", `{}`)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, calls)
}

func TestIdempotency_StoresClientErrors(t *testing.T) {
	store := newFakeIdempotencyStore()
	r := newIdempotentRouter(store, func(c *gin.Context) {
		_ = c.Error(apperror.NewAlreadyValidated("receipt", "RCP-000001"))
		c.Abort()
	})

	w := doRequest(r, http.MethodPost, "/docs/1/validate", "k2", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	stored := store.get("k2")
	require.NotNil(t, stored)
	assert.Equal(t, "failed", stored.status)
	assert.Contains(t, string(stored.body), apperror.CodeAlreadyValidated)
}

func TestIdempotency_ReleasesOnServerError(t *testing.T) {
	store := newFakeIdempotencyStore()
	r := newIdempotentRouter(store, func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Abort()
	})

	w := doRequest(r, http.MethodPost, "/docs/1/validate", "k3", `{}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, store.get("k3"))
}

func TestIdempotency_IgnoresReadsAndMissingKey(t *testing.T) {
	store := newFakeIdempotencyStore()
	r := newIdempotentRouter(store, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	doRequest(r, http.MethodGet, "/docs/1", "k4", "")
	doRequest(r, http.MethodPost, "/docs/1/validate", "", `{}`)

	assert.Empty(t, store.keys)
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("p1", "200", "70"))
		c.Abort()
	})

	w := doRequest(r, http.MethodGet, "/x", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInsufficientStock, body.Code)
	assert.Equal(t, "70", body.Details["available"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
		c.Abort()
	})

	w := doRequest(r, http.MethodGet, "/x", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

type staticValidator struct {
	user *appctx.UserContext
}

func (v staticValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.user, nil
}

func TestAuth(t *testing.T) {
	user := &appctx.UserContext{UserID: id.New(), Roles: []string{"manager"}}

	r := gin.New()
	r.Use(ErrorHandler(), Auth(staticValidator{user: user}))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()).String())
	})
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid", "/me", "Bearer good", http.StatusOK},
		{"missing role", "/admin", "Bearer good", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK && tt.path == "/me" {
				assert.Equal(t, user.UserID.String(), w.Body.String())
			}
		})
	}
}

func TestStaticUser(t *testing.T) {
	fallback := &appctx.UserContext{UserID: id.New()}
	other := id.New()

	r := gin.New()
	r.Use(StaticUser(fallback))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()).String())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, fallback.UserID.String(), w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, other.String())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, other.String(), w.Body.String())
}
