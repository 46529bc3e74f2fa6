package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
)

// TransactionalRepository provides methods to work with multiple repositories in a single transaction
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// UpdateOrderWithEvent updates an order and records an outbox event in a single transaction.
// Neither write is visible unless both succeed.
func (tr *TransactionalRepository) UpdateOrderWithEvent(ctx context.Context, id uuid.UUID, patch model.OrderPatch, event *model.Event) (*model.Order, error) {
	var updated *model.Order
	err := withinTransaction(ctx, tr.db, func(tx *sql.Tx) error {
		orderRepo := &OrderRepository{db: tr.db, txn: tx}
		eventRepo := &EventRepository{db: tr.db, txn: tx}

		order, err := orderRepo.Update(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if _, err := eventRepo.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
