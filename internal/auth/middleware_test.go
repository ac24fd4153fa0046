package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzboard/kzboard/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireUser(t *testing.T) {
	manager, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	valid, err := manager.Sign(39734273, []Permission{PermissionViewBans})
	require.NoError(t, err)

	var gotUser *User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireUser(manager)(next)

	tests := []struct {
		name       string
		token      *string
		wantStatus int
		wantBody   string
	}{
		{"missing header", nil, http.StatusBadRequest, "X-User-Token header missing"},
		{"non-ascii header", ptr("t\xc3\xb6ken"), http.StatusBadRequest, "X-User-Token must be ASCII"},
		{"garbage token", ptr("garbage"), http.StatusUnauthorized, "X-User-Token is invalid"},
		{"valid token", &valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.token != nil {
				req.Header.Set("X-User-Token", *tt.token)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
		})
	}

	require.NotNil(t, gotUser)
	assert.Equal(t, uint64(39734273), gotUser.ID)
	assert.Equal(t, []Permission{PermissionViewBans}, gotUser.Permissions)
}

func TestRequireUserExpiredToken(t *testing.T) {
	issuer, err := NewTokenManager(testSecret, -time.Minute)
	require.NoError(t, err)
	manager, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := issuer.Sign(1, nil)
	require.NoError(t, err)

	guarded := RequireUser(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-Token", expired)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type stubServerStore struct {
	server *domain.Server
	err    error
	token  string
}

func (s *stubServerStore) ServerByToken(ctx context.Context, token string) (*domain.Server, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return s.server, nil
}

func TestRequireServer(t *testing.T) {
	tests := []struct {
		name       string
		token      *string
		store      *stubServerStore
		wantStatus int
		wantBody   string
	}{
		{
			"missing header", nil, &stubServerStore{},
			http.StatusBadRequest, "X-Server-Token header missing",
		},
		{
			"non-ascii header", ptr("t\xc3\xb6ken"), &stubServerStore{},
			http.StatusBadRequest, "X-Server-Token must be ASCII",
		},
		{
			"unknown token", ptr("nope"), &stubServerStore{err: domain.ErrServerNotFound},
			http.StatusUnauthorized, "X-Server-Token is invalid",
		},
		{
			"database error", ptr("boom"), &stubServerStore{err: errors.New("connection reset")},
			http.StatusInternalServerError, "internal server error",
		},
		{
			"valid token", ptr("secret"), &stubServerStore{server: &domain.Server{ID: 7}},
			http.StatusOK, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotServer *domain.Server
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotServer, _ = ServerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			guarded := RequireServer(tt.store, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/server_info", nil)
			if tt.token != nil {
				req.Header.Set("X-Server-Token", *tt.token)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotServer)
				assert.Equal(t, uint32(7), gotServer.ID)
				assert.Equal(t, "secret", tt.store.token)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}
