// Package publisher records audit entries without ever failing the caller's
// business operation. Entries go to the Store first and are then mirrored to
// every configured Sink.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "trustestate/pkg/domain"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/audit/worker"
	"trustestate/pkg/platform/circuit"
	"trustestate/pkg/requestcontext"
)

// ErrBufferFull is returned by Emit in async mode when the inbox is saturated.
var ErrBufferFull = errors.New("audit buffer full")

// ErrCircuitOpen is returned by Emit while the store breaker is open.
var ErrCircuitOpen = errors.New("audit store circuit open")

const defaultWriteTimeout = 3 * time.Second

// Publisher is the audit recorder.
type Publisher struct {
	store   audit.Store
	sinks   []audit.Sink
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics

	probeMu       sync.Mutex
	lastProbe     time.Time
	probeInterval time.Duration

	inbox     chan audit.Entry
	inboxMu   sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	closeOnce sync.Once
	bufSize   int
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSink mirrors every stored entry to s.
func WithSink(s audit.Sink) Option {
	return func(p *Publisher) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

// WithAsyncBuffer makes Emit enqueue instead of writing inline.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufSize = size
	}
}

// WithBreaker replaces the store breaker; probeInterval spaces the writes
// attempted while it is open.
func WithBreaker(b *circuit.Breaker, probeInterval time.Duration) Option {
	return func(p *Publisher) {
		if b != nil {
			p.breaker = b
		}
		p.probeInterval = probeInterval
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		logger:        slog.Default(),
		breaker:       circuit.New("audit-store", circuit.WithFailureThreshold(5)),
		probeInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize > 0 {
		p.inbox = make(chan audit.Entry, p.bufSize)
		w := worker.NewWorker(p.inbox, func(ctx context.Context, e audit.Entry) {
			if err := p.write(ctx, e); err != nil {
				p.logFailure(ctx, e, err)
			}
		})
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Record appends an audit entry for action on targetID. It never returns an
// error: failures are logged and counted so the primary mutation stands.
func (p *Publisher) Record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string) {
	entry := audit.Entry{
		Action:    action,
		TargetID:  targetID,
		Metadata:  metadata,
		ActorID:   requestcontext.UserID(ctx),
		RequestID: requestcontext.RequestID(ctx),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := p.Emit(ctx, entry); err != nil {
		p.logFailure(ctx, entry, err)
	}
}

// Emit stores the entry (inline or via the async inbox). ID and CreatedAt are
// filled in when missing.
func (p *Publisher) Emit(ctx context.Context, entry audit.Entry) error {
	if entry.ID.IsNil() {
		entry.ID = id.NewAuditEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if p.inbox == nil {
		return p.write(ctx, entry)
	}

	p.inboxMu.RLock()
	defer p.inboxMu.RUnlock()
	// Entries arriving after Close are written inline.
	if p.closed {
		return p.write(ctx, entry)
	}
	select {
	case p.inbox <- entry:
		return nil
	default:
	}
	select {
	case p.inbox <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incDropped()
		return ErrBufferFull
	}
}

func (p *Publisher) write(ctx context.Context, entry audit.Entry) error {
	if p.breaker.IsOpen() {
		if !p.probeDue() {
			p.metrics.incDropped()
			return ErrCircuitOpen
		}
		if err := p.append(ctx, entry); err != nil {
			p.breaker.RecordFailure()
			p.metrics.incDropped()
			return ErrCircuitOpen
		}
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.metrics.setBreakerOpen(false)
		}
	} else {
		if err := p.append(ctx, entry); err != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.metrics.setBreakerOpen(true)
				p.logger.WarnContext(ctx, "audit store circuit opened", "breaker", p.breaker.Name())
			}
			p.metrics.incFailed()
			return err
		}
		p.breaker.RecordSuccess()
	}
	p.metrics.incRecorded(entry.Action)

	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, entry); err != nil {
			p.metrics.incSinkFailed()
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", entry.Action.String(),
				"target_id", entry.TargetID,
				"error", err,
			)
		}
	}
	return nil
}

// probeDue lets one write through per probeInterval while the circuit is open.
func (p *Publisher) probeDue() bool {
	p.probeMu.Lock()
	defer p.probeMu.Unlock()
	now := time.Now()
	if now.Sub(p.lastProbe) < p.probeInterval {
		return false
	}
	p.lastProbe = now
	return true
}

func (p *Publisher) append(ctx context.Context, entry audit.Entry) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultWriteTimeout)
	defer cancel()
	return p.store.Append(ctx, entry)
}

func (p *Publisher) logFailure(ctx context.Context, entry audit.Entry, err error) {
	p.logger.ErrorContext(ctx, "audit record failed",
		"action", entry.Action.String(),
		"target_id", entry.TargetID,
		"request_id", entry.RequestID,
		"error", err,
	)
}

// List returns the most recent entries, newest first.
func (p *Publisher) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close drains the async inbox. Safe to call more than once; later Emits
// write inline.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox == nil {
			return
		}
		p.inboxMu.Lock()
		p.closed = true
		close(p.inbox)
		p.inboxMu.Unlock()
		p.wg.Wait()
	})
}
