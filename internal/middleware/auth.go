package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/auth"
)

// userIDKey is the context key under which the authenticated user id is stored.
// An unexported struct type prevents collisions with other packages' keys.
type userIDKey struct{}

// NewAuthHandler returns a middleware that requires a valid Bearer access
// token, resolving the token's subject into the request context. Requests
// without a valid token are rejected with 401 and never reach the handler.
//
// Handlers read the resolved id with UserIDFrom.
func NewAuthHandler(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			userID, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated user id placed in ctx by
// NewAuthHandler, and whether one is present.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}

// WithUserID returns a copy of ctx carrying userID as the authenticated user.
// Exposed for handler tests, which have no token to parse.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// writeUnauthorized emits the same error envelope the handler package uses,
// duplicated here to keep the middleware free of a handler dependency.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
}
