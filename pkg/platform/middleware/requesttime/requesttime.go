// Package requesttime pins one "now" per request so lifecycle entries, audit
// rows and suspension dates written by the same request agree.
package requesttime

import (
	"net/http"
	"time"

	"trustestate/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
