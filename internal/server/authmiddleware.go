package server

import (
	"context"
	"net/http"
	"strings"

	"shopchat/internal/session"
)

// sessionContextKey is the context key for the resolved session.
const sessionContextKey contextKey = "session"

// SessionMiddleware resolves the session token from the Authorization
// header (Bearer format) and injects the session into the request
// context. Requests without a valid session are rejected.
func SessionMiddleware(registry *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			token = strings.TrimPrefix(token, "Bearer ")

			sess, err := registry.Get(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			AddLogField(r.Context(), "store", sess.Store.Username)
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the session from context. Returns nil if no session
// is set.
func GetSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionContextKey).(*session.Session); ok {
		return s
	}
	return nil
}
