package worker

import (
	"context"

	audit "trustestate/pkg/platform/audit"
)

// Handler persists or forwards one entry.
type Handler func(ctx context.Context, entry audit.Entry)

// Worker drains an inbox of audit entries. Run returns when the inbox is
// closed and fully drained, or when ctx is cancelled.
type Worker struct {
	inbox  <-chan audit.Entry
	handle Handler
}

func NewWorker(inbox <-chan audit.Entry, handle Handler) *Worker {
	return &Worker{inbox: inbox, handle: handle}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.handle(ctx, entry)
		}
	}
}
