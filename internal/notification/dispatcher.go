package notification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
)

// Dispatcher turns order notifications into emails. Delivery problems are
// logged and counted, never returned.
type Dispatcher struct {
	mailer   Mailer
	shopName string
}

func NewDispatcher(mailer Mailer, shopName string) *Dispatcher {
	return &Dispatcher{mailer: mailer, shopName: shopName}
}

// Notify renders the kind template for shortID and sends it to recipient.
// An empty recipient is skipped.
func (d *Dispatcher) Notify(ctx context.Context, kind model.NotificationKind, recipient, shortID string) {
	logger := slog.With(slog.String("kind", string(kind)), slog.String("short_id", shortID))

	if strings.TrimSpace(recipient) == "" {
		logger.Warn("Skipping order notification without recipient")
		metrics.NotificationsSkipped.WithLabelValues(string(kind)).Inc()
		return
	}

	m, err := Render(kind, shortID, d.shopName)
	if err != nil {
		logger.Error("Failed to render order notification", slog.Any("err", err))
		metrics.NotificationsFailed.WithLabelValues(string(kind)).Inc()
		return
	}
	m.To = recipient

	if err := d.mailer.Send(ctx, m); err != nil {
		logger.Error("Failed to send order notification", slog.String("to", recipient), slog.Any("err", err))
		metrics.NotificationsFailed.WithLabelValues(string(kind)).Inc()
		return
	}

	metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
	logger.Info("Order notification sent", slog.String("to", recipient))
}

// Handle adapts Notify to broker consumers. It always returns nil so the
// message is acknowledged.
func (d *Dispatcher) Handle(ctx context.Context, n model.OrderNotification) error {
	d.Notify(ctx, n.Kind, n.Email, n.ShortID)
	return nil
}
