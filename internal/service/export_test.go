package service

import "context"

// ProcessEvents runs a single outbox pass.
func (w *OutboxWorker) ProcessEvents(ctx context.Context) {
	w.processEvents(ctx)
}
