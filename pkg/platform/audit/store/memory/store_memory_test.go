package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "trustestate/pkg/platform/audit"
)

func TestListRecent_NewestFirstAndCapped(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	for i := range 120 {
		require.NoError(t, store.Append(ctx, audit.Entry{
			Action:    audit.ActionStatusChange,
			TargetID:  "p",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.ListRecent(ctx, 500)
	require.NoError(t, err)
	require.Len(t, entries, audit.MaxListLimit)
	assert.Equal(t, base.Add(119*time.Minute), entries[0].CreatedAt)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt))
	}
}

func TestListRecent_SameTimestampReverseAppendOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Append(ctx, audit.Entry{Action: audit.ActionBanUser, CreatedAt: now}))
	require.NoError(t, store.Append(ctx, audit.Entry{Action: audit.ActionReactivateUser, CreatedAt: now}))

	entries, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionReactivateUser, entries[0].Action)
}
