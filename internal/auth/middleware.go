package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
)

type contextKey struct{}

// Verifier resolves a bearer token to a user id
type Verifier interface {
	Verify(tokenString string) (int, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's user id in the request context
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Authorization header required")
				return
			}

			userID, err := verifier.Verify(tokenString)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying userID
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the user id stored by Middleware
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(contextKey{}).(int)
	return userID, ok && userID > 0
}

// Format should be: "Bearer {token}"
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}
