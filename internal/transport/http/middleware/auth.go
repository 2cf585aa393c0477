package middleware

import (
	"context"
	"net/http"
	"strings"

	"paraverse/internal/httputil"
	"paraverse/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"
)

// SessionCookieName is the cookie the login handler sets.
const SessionCookieName = "token"

// TokenVerifier validates a session token and returns the account it
// belongs to. Revoked tokens (version mismatch) must not verify.
type TokenVerifier interface {
	VerifySessionToken(ctx context.Context, tokenString string) (*model.User, error)
}

// tokenFromRequest extracts the session token from the Authorization header
// (API clients) or the session cookie (web browsers).
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// AuthMiddleware rejects requests without a valid session token and puts the
// authenticated user on the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Authentication required")
				return
			}

			user, err := verifier.VerifySessionToken(r.Context(), tokenString)
			if err != nil {
				httputil.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}

// GetUserIDFromContext extracts the authenticated user's ID from the context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
