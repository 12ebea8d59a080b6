package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/velostore/storefront/internal/session"
)

type contextKey string

const userIDKey contextKey = "user_id"

// SessionAuth resolves the Authorization bearer token into an authenticated
// user ID and stores it on the request context. Missing, unknown or
// unresolvable tokens degrade to anonymous; a cart request never fails on
// session lookup.
func SessionAuth(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.UserID(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Printf("session lookup failed, treating request as anonymous: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
