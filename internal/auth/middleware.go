package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/juliebook/juliebook-be/internal/apierr"
)

type contextKey string

const userIDKey = contextKey("userID")

// UserIDFromContext returns the authenticated user id attached by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Middleware returns a middleware protecting routes with bearer-token auth.
// It extracts the token from the Authorization header, verifies it, and
// attaches the user id to the request context. Requests without a valid token
// are rejected with 401 and never reach the downstream handler.
func (t *TokenIssuer) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
				return
			}

			userID, err := t.Verify(tokenStr)
			if err != nil {
				apierr.Respond(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
