package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "trustestate/pkg/domain"
)

func TestAnonymousContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, UserID(ctx).IsNil())
	assert.Empty(t, Role(ctx))
	assert.Equal(t, SystemActor, ActorName(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, RequestID(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestPrincipal(t *testing.T) {
	userID := id.NewUserID()
	ctx := WithPrincipal(context.Background(), userID, "Ada Landlord", id.RoleLandlord)
	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, "Ada Landlord", ActorName(ctx))
	assert.Equal(t, id.RoleLandlord, Role(ctx))

	ctx = WithPrincipal(ctx, id.NewUserID(), "", id.RoleTenant)
	assert.Equal(t, SystemActor, ActorName(ctx), "nameless principal falls back")
	assert.Equal(t, id.RoleTenant, Role(ctx))
}

func TestRequestValues(t *testing.T) {
	fixed := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)
	ctx = WithRequestID(ctx, "req-42")
	ctx = WithClientIP(ctx, "102.89.4.1")
	ctx = WithDeviceFingerprint(ctx, "fp-1")

	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, "102.89.4.1", ClientIP(ctx))
	assert.Equal(t, "fp-1", DeviceFingerprint(ctx))
}
