// Package middleware provides HTTP middleware for the checker API:
// session authentication, admin gating, CORS, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/1shammah/symptom-checker/internal/auth/session"
	"github.com/1shammah/symptom-checker/internal/auth/user"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "session_token"
)

// publicPath reports whether the path is reachable without a session.
func publicPath(path string) bool {
	if strings.HasPrefix(path, "/health") {
		return true
	}
	switch path {
	case "/api/v1/auth/register", "/api/v1/auth/login":
		return true
	}
	return false
}

// Auth returns middleware that resolves the bearer token to an account and
// stores it in the request context. Health and auth endpoints are exempt.
func Auth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			u, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "session expired or unknown")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin wraps a handler so only admin accounts can reach it.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := GetUser(r.Context())
		if u == nil {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		if !u.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	}
}

// GetUser retrieves the authenticated account from the request context.
func GetUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(userKey).(*user.User)
	return u
}

// GetToken retrieves the session token from the request context.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// extractToken reads the session token from Authorization: Bearer or the
// X-Session-Token header.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-Session-Token")
}

// writeError writes a JSON error response to the client.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
