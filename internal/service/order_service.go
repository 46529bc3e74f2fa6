package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

type OrderService struct {
	orders repository.OrderRepository
	writer repository.OrderEventWriter
}

func NewOrderService(orders repository.OrderRepository, writer repository.OrderEventWriter) *OrderService {
	return &OrderService{
		orders: orders,
		writer: writer,
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.Status != "" && !order.Status.Valid() {
		return nil, unknownStatusError(order.Status)
	}

	order.InitMeta()

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	slog.Info("Order created", slog.String("order_id", created.ID.String()))

	return created, nil
}

// UpdateOrder applies patch and, when the status moves to one with an email
// template, records the notification in the outbox in the same write.
// The notification itself is delivered later and never fails the update.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error) {
	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, unknownStatusError(*patch.Status)
	}

	requested := current.Status
	if patch.Status != nil {
		requested = *patch.Status
	}

	kind, notify := TransitionNotification(current.Status, requested)
	if !notify {
		updated, err := s.orders.Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		s.recordStatusChange(current, updated)
		return updated, nil
	}

	projected := *current
	patch.Apply(&projected)

	event, err := model.NewOrderNotificationEvent(kind, &projected)
	if err != nil {
		return nil, err
	}

	updated, err := s.writer.UpdateOrderWithEvent(ctx, id, patch, event)
	if err != nil {
		return nil, err
	}

	s.recordStatusChange(current, updated)
	slog.Info("Order notification queued",
		slog.String("order_id", updated.ID.String()),
		slog.String("kind", string(kind)),
		slog.String("event_id", event.ID.String()))

	return updated, nil
}

func (s *OrderService) recordStatusChange(before, after *model.Order) {
	if before.Status == after.Status {
		return
	}
	metrics.OrderStatusChanges.WithLabelValues(string(after.Status)).Inc()
	slog.Info("Order status changed",
		slog.String("order_id", after.ID.String()),
		slog.String("from", string(before.Status)),
		slog.String("to", string(after.Status)))
}

func unknownStatusError(status model.OrderStatus) *ValidationError {
	return newValidationError(fmt.Sprintf("Unknown order status %q.", status))
}
