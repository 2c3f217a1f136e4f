package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/session"
)

// contextKey is the type for context keys
type contextKey string

const (
	// SessionKey is the context key holding the resolved session
	SessionKey contextKey = "session"
)

// AuthMiddleware resolves the bearer token against the session store
func AuthMiddleware(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			sess, err := sessions.Get(r.Context(), parts[1])
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					respondError(w, http.StatusUnauthorized, "Invalid or revoked session")
					return
				}
				respondError(w, http.StatusInternalServerError, "Failed to resolve session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks that the session user has one of the given roles
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			hasRole := false
			for _, role := range roles {
				if sess.User.Role == role {
					hasRole = true
					break
				}
			}

			if !hasRole {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSession extracts the session from the request context
func GetSession(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
