// Package admin guards the administrative surface.
package admin

import (
	"log/slog"
	"net/http"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

// RequireAdmin rejects principals whose role is not Admin. Must run after
// auth.RequireAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Role(ctx) != id.RoleAdmin {
				logger.WarnContext(ctx, "admin access denied",
					"user_id", requestcontext.UserID(ctx).String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
