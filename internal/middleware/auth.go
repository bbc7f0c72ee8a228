package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/auth"
	"github.com/hongminglow/messagely-be/internal/http/respond"
	"github.com/hongminglow/messagely-be/internal/logger"
)

type contextKey string

const usernameKey contextKey = "username"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's username on the request context.
func RequireAuth(tokens TokenParser, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.WithContext(r.Context(), log).Debug("rejected bearer token", zap.Error(err))
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), claims.Username)))
		})
	}
}

// RequireSameUser allows the request only when the URL parameter param equals
// the authenticated username. It must run after RequireAuth.
func RequireSameUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := UsernameFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if chi.URLParam(r, param) != username {
				respond.Error(w, http.StatusForbidden, "not authorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUsername returns a copy of ctx carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFromContext extracts the authenticated username.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}
