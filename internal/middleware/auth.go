package middleware

import (
	"context"
	"net/http"
	"strings"

	appauth "github.com/bryanwahyu/report-vault/internal/application/auth"
)

type contextKey string

const (
	SessionTokenKey contextKey = "session_token"
	UsernameKey     contextKey = "username"
)

// publicPath reports endpoints reachable without a session
func publicPath(p string) bool {
	switch p {
	case "/health", "/ready", "/live", "/metrics", "/v1/auth/login":
		return true
	}
	return false
}

// SessionAuth validates the session token from the Authorization header and
// stores it in the request context. Expiry is discovered here lazily, on the
// check, the same way every other IsAuthenticated call discovers it.
func SessionAuth(sessions *appauth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			if !sessions.IsAuthenticated(token) {
				http.Error(w, "not logged in or session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionTokenKey, token)
			if user, ok := sessions.CurrentUser(token); ok {
				ctx = context.WithValue(ctx, UsernameKey, user.Username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTokenFromContext extracts the session token from context
func GetTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// GetUsernameFromContext extracts the username from context
func GetUsernameFromContext(ctx context.Context) string {
	if u, ok := ctx.Value(UsernameKey).(string); ok {
		return u
	}
	return ""
}
