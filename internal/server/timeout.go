package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps each request's context at the given duration,
// which is taken from server.request_timeout. Chat turns block on the
// remote completion call, so handlers see the deadline through the
// request context rather than a hard kill.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
