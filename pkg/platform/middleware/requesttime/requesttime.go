// Package requesttime captures one "now" per request so audit timestamps
// and log lines within a request agree.
package requesttime

import (
	"net/http"
	"time"

	"lcm/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and stores
// it in the context. Read it with requestcontext.Now.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
