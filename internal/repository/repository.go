package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the requested identifier.
	ErrNotFound = errors.New("resource not found")
)

// ConstraintError reports a write rejected by a storage-level constraint.
type ConstraintError struct {
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %q violated: %s", e.Constraint, e.Detail)
}

// ProductRepository persists the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	AppendReview(ctx context.Context, id uuid.UUID, review *model.Review) (*model.Review, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error)
}

// MessageRepository persists contact messages.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) (*model.Message, error)
	List(ctx context.Context) ([]*model.Message, error)
}

// EventRepository persists outbox events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, query Query) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// OrderEventWriter applies an order update and records an outbox event atomically.
type OrderEventWriter interface {
	UpdateOrderWithEvent(ctx context.Context, id uuid.UUID, patch model.OrderPatch, event *model.Event) (*model.Order, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Products     ProductRepository
	Orders       OrderRepository
	Messages     MessageRepository
	Events       EventRepository
	Transactions OrderEventWriter

	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}
