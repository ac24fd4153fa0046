package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"unicode"

	"github.com/kzboard/kzboard/internal/domain"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	serverContextKey contextKey = "server"
)

// ServerStore resolves opaque server tokens to server rows
type ServerStore interface {
	ServerByToken(ctx context.Context, token string) (*domain.Server, error)
}

// RequireUser is middleware that extracts a User principal from the
// X-User-Token header before handler dispatch.
func RequireUser(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values, ok := r.Header["X-User-Token"]
			if !ok || len(values) == 0 {
				http.Error(w, "X-User-Token header missing", http.StatusBadRequest)
				return
			}
			token := values[0]
			if !isASCII(token) {
				http.Error(w, "X-User-Token must be ASCII", http.StatusBadRequest)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, "X-User-Token is invalid", http.StatusUnauthorized)
				return
			}

			user := &User{ID: claims.UserID, Permissions: claims.Permissions}
			if user.Permissions == nil {
				user.Permissions = []Permission{}
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireServer is middleware that authenticates a game server from the
// X-Server-Token header against the servers table.
func RequireServer(store ServerStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values, ok := r.Header["X-Server-Token"]
			if !ok || len(values) == 0 {
				http.Error(w, "X-Server-Token header missing", http.StatusBadRequest)
				return
			}
			token := values[0]
			if !isASCII(token) {
				http.Error(w, "X-Server-Token must be ASCII", http.StatusBadRequest)
				return
			}

			server, err := store.ServerByToken(r.Context(), token)
			if errors.Is(err, domain.ErrServerNotFound) {
				http.Error(w, "X-Server-Token is invalid", http.StatusUnauthorized)
				return
			}
			if err != nil {
				logger.Error("failed to look up server token", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), serverContextKey, server)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the User principal stored by RequireUser
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// ServerFromContext returns the Server principal stored by RequireServer
func ServerFromContext(ctx context.Context) (*domain.Server, bool) {
	server, ok := ctx.Value(serverContextKey).(*domain.Server)
	return server, ok
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
