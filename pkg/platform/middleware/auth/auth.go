// Package auth authenticates bearer tokens.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID id.UserID
	Name   string
	Role   id.Role
}

// Authenticator resolves bearer tokens. Implemented by the identity token
// service.
type Authenticator interface {
	Authenticate(token string) (Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and places the
// principal into the request context.
func RequireAuth(authenticator Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			p, err := authenticator.Authenticate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, p.UserID, p.Name, p.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
