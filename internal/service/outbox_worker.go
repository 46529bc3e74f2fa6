package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

const outboxBatchSize = 100

// NotificationPublisher hands an order notification to the message broker.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, msg model.OrderNotification) error
}

// OutboxWorker polls the events table and publishes pending events.
// An event that fails to publish is marked failed and not retried.
type OutboxWorker struct {
	events    repository.EventRepository
	publisher NotificationPublisher
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewOutboxWorker creates a new OutboxWorker
func NewOutboxWorker(events repository.EventRepository, publisher NotificationPublisher, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		events:    events,
		publisher: publisher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins processing events from the outbox. It blocks until ctx is done or Stop is called.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.processEvents(ctx)
		}
	}
}

// Stop stops the outbox worker
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

func (w *OutboxWorker) processEvents(ctx context.Context) {
	query := repository.NewQuery().With(repository.StatusField, string(model.EventStatusPending))
	query.Limit = outboxBatchSize

	events, err := w.events.List(ctx, *query)
	if err != nil {
		slog.Error("Failed to retrieve pending events", slog.Any("err", err))
		return
	}

	if len(events) == 0 {
		return
	}

	slog.Info("Processing pending events", slog.Int("count", len(events)))

	for _, event := range events {
		status := model.EventStatusProcessed
		if err := w.processEvent(ctx, event); err != nil {
			slog.Error("Failed to process event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.Any("err", err))
			metrics.OutboxEventsFailed.Inc()
			status = model.EventStatusFailed
		} else {
			metrics.OutboxEventsPublished.Inc()
		}

		if err := w.events.UpdateStatus(ctx, event.ID, status); err != nil {
			slog.Error("Failed to update event status",
				slog.String("event_id", event.ID.String()),
				slog.String("status", string(status)),
				slog.Any("err", err))
			continue
		}

		if status == model.EventStatusProcessed {
			slog.Info("Event processed successfully",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType))
		}
	}
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *model.Event) error {
	if event.EventType != model.EventTypeOrderNotification {
		return fmt.Errorf("unsupported event type %q", event.EventType)
	}

	var msg model.OrderNotification
	if err := json.Unmarshal(event.EventData, &msg); err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}

	return w.publisher.PublishNotification(ctx, msg)
}
