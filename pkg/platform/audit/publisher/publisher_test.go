package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "trustestate/pkg/domain"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/audit/store/memory"
	"trustestate/pkg/platform/circuit"
	"trustestate/pkg/requestcontext"
)

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (f *failingStore) Append(context.Context, audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("disk full")
}

func (f *failingStore) ListRecent(context.Context, int) ([]audit.Entry, error) {
	return nil, nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (r *recordingSink) Publish(_ context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Entry{Action: audit.ActionBanUser, TargetID: "u-1"})
	require.NoError(t, err)

	entries, err := pub.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionBanUser, entries[0].Action)
	assert.False(t, entries[0].ID.IsNil())
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Entry{Action: audit.ActionStatusChange}))
	}

	pub.Close()
	pub.Close()

	assert.Equal(t, 10, store.Len(), "all entries should be drained on close")
}

func TestPublisher_RecordAfterCloseWritesInline(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(4))
	pub.Close()

	require.NotPanics(t, func() {
		pub.Record(context.Background(), audit.ActionBanUser, "u-9", nil)
	})
	require.NoError(t, pub.Emit(context.Background(), audit.Entry{Action: audit.ActionStatusChange}))
	assert.Equal(t, 2, store.Len())
}

func TestPublisher_EmitRacingClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(8))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pub.Record(context.Background(), audit.ActionStatusChange, "p-1", nil)
		}()
	}
	pub.Close()
	wg.Wait()
	assert.LessOrEqual(t, store.Len(), 20)
}

func TestPublisher_BufferFull_DoesNotBlock(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pub.Emit(context.Background(), audit.Entry{Action: audit.ActionStatusChange})
		}()
	}
	wg.Wait()
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Entry{Action: audit.ActionBanUser}))
	after := time.Now()

	entries, err := pub.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].CreatedAt.Before(before))
	assert.False(t, entries[0].CreatedAt.After(after))
}

func TestPublisher_RecordUsesRequestContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	admin := id.NewUserID()
	fixed := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)
	ctx = requestcontext.WithPrincipal(ctx, admin, "Registry Admin", id.RoleAdmin)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	pub.Record(ctx, audit.ActionVerifyDeal, "prop-1", map[string]string{"finalStatus": "SOLD"})

	entries, err := pub.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fixed, entries[0].CreatedAt)
	assert.Equal(t, admin, entries[0].ActorID)
	assert.Equal(t, "req-42", entries[0].RequestID)
	assert.Equal(t, "SOLD", entries[0].Metadata["finalStatus"])
}

func TestPublisher_RecordSwallowsStoreFailure(t *testing.T) {
	store := &failingStore{}
	pub := NewPublisher(store)
	defer pub.Close()

	assert.NotPanics(t, func() {
		pub.Record(context.Background(), audit.ActionBanUser, "u-1", nil)
	})
	assert.Equal(t, 1, store.calls)
}

func TestPublisher_OpenCircuitSkipsStore(t *testing.T) {
	store := &failingStore{}
	pub := NewPublisher(store, WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2)), time.Hour))
	defer pub.Close()

	ctx := context.Background()
	require.Error(t, pub.Emit(ctx, audit.Entry{Action: audit.ActionBanUser}))
	require.Error(t, pub.Emit(ctx, audit.Entry{Action: audit.ActionBanUser}))

	// First call while open is the probe; later calls are dropped until the interval passes.
	assert.ErrorIs(t, pub.Emit(ctx, audit.Entry{Action: audit.ActionBanUser}), ErrCircuitOpen)
	assert.ErrorIs(t, pub.Emit(ctx, audit.Entry{Action: audit.ActionBanUser}), ErrCircuitOpen)
	assert.Equal(t, 3, store.calls)
}

func TestPublisher_SinkFailureDoesNotFailEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	sink := &recordingSink{err: errors.New("broker down")}
	pub := NewPublisher(store, WithSink(sink))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Entry{Action: audit.ActionUnlockProperty}))
	assert.Len(t, sink.entries, 1)
	assert.Equal(t, 1, store.Len())
}
