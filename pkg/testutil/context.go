package testutil

import (
	"context"
	"net/http"
	"time"

	id "trustestate/pkg/domain"
	"trustestate/pkg/requestcontext"
)

// WithPrincipal adds an authenticated user to the request context, the way
// the auth middleware would.
func WithPrincipal(req *http.Request, userID id.UserID, name string, role id.Role) *http.Request {
	ctx := requestcontext.WithPrincipal(req.Context(), userID, name, role)
	return req.WithContext(ctx)
}

// PrincipalContext builds a service-level context for the given user.
func PrincipalContext(userID id.UserID, name string, role id.Role, now time.Time) context.Context {
	ctx := requestcontext.WithPrincipal(context.Background(), userID, name, role)
	return requestcontext.WithTime(ctx, now)
}
