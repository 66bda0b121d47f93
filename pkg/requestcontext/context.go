// Package requestcontext carries request-scoped values from middleware to
// services without importing net/http.
//
//	ctx = requestcontext.WithPrincipal(ctx, userID, "Ada Landlord", id.RoleLandlord)
//	ctx = requestcontext.WithTime(ctx, fixed)
//	actor := requestcontext.ActorName(ctx)
package requestcontext

import (
	"context"
	"time"

	id "trustestate/pkg/domain"
)

// SystemActor is recorded on lifecycle entries when no user is present.
const SystemActor = "System Registry"

type key int

const (
	principalKey key = iota
	clientIPKey
	fingerprintKey
	requestIDKey
	requestTimeKey
)

// principal is stored as one value so a user ID never travels without its
// role.
type principal struct {
	userID id.UserID
	name   string
	role   id.Role
}

func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// WithPrincipal records the authenticated user, as the auth middleware does
// after validating a token.
func WithPrincipal(ctx context.Context, userID id.UserID, name string, role id.Role) context.Context {
	return context.WithValue(ctx, principalKey, principal{userID: userID, name: name, role: role})
}

// UserID is the nil UUID for anonymous requests.
func UserID(ctx context.Context) id.UserID {
	return value[principal](ctx, principalKey).userID
}

func UserName(ctx context.Context) string {
	return value[principal](ctx, principalKey).name
}

func Role(ctx context.Context) id.Role {
	return value[principal](ctx, principalKey).role
}

// ActorName is the name written into lifecycle entries.
func ActorName(ctx context.Context) string {
	if name := UserName(ctx); name != "" {
		return name
	}
	return SystemActor
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	return value[string](ctx, clientIPKey)
}

func WithDeviceFingerprint(ctx context.Context, fingerprint string) context.Context {
	return context.WithValue(ctx, fingerprintKey, fingerprint)
}

func DeviceFingerprint(ctx context.Context) string {
	return value[string](ctx, fingerprintKey)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	return value[string](ctx, requestIDKey)
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

// Now is the request's pinned time, or the wall clock outside a request
// (CLI, background publishers).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}
