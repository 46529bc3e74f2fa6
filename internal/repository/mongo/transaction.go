package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
)

type sessionStarter interface {
	StartSession() (mongo.Session, error)
}

// TransactionalRepository updates an order and writes its outbox event in one
// multi-document transaction. Requires a replica set deployment.
type TransactionalRepository struct {
	sessions sessionStarter
	orders   *OrderRepository
	events   *EventRepository
}

func NewTransactionalRepository(sessions sessionStarter, orders *OrderRepository, events *EventRepository) *TransactionalRepository {
	return &TransactionalRepository{sessions: sessions, orders: orders, events: events}
}

func (tr *TransactionalRepository) UpdateOrderWithEvent(ctx context.Context, id uuid.UUID, patch model.OrderPatch, event *model.Event) (*model.Order, error) {
	session, err := tr.sessions.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		order, err := tr.orders.Update(sc, id, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		if _, err := tr.events.Create(sc, event); err != nil {
			return nil, fmt.Errorf("failed to create event: %w", err)
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Order), nil
}
