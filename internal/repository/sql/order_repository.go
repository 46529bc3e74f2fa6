package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

const orderColumns = "id, customer_name, email, address, phone, items, total, payment_method, status, created_at, updated_at"

// OrderRepository stores orders with their line items embedded as a JSONB array.
type OrderRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewOrderRepository creates a new OrderRepository instance.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new order into the database.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.ID == uuid.Nil {
		order.InitMeta()
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, order.ID, order.CustomerName, order.Email, order.Address, order.Phone,
		items, order.Total, order.PaymentMethod, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", translateError(err))
	}

	return order, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return orders, nil
}

// FindByID retrieves a single order by ID.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	order, err := scanOrder(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// Update applies patch to the order and returns the stored result.
func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error) {
	var set setClause
	if patch.CustomerName != nil {
		set.add("customer_name", *patch.CustomerName)
	}
	if patch.Email != nil {
		set.add("email", *patch.Email)
	}
	if patch.Address != nil {
		set.add("address", *patch.Address)
	}
	if patch.Phone != nil {
		set.add("phone", *patch.Phone)
	}
	if patch.Items != nil {
		items, err := json.Marshal(*patch.Items)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal order items: %w", err)
		}
		set.add("items", items)
	}
	if patch.Total != nil {
		set.add("total", *patch.Total)
	}
	if patch.PaymentMethod != nil {
		set.add("payment_method", *patch.PaymentMethod)
	}
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	set.add("updated_at", time.Now().UTC())

	query, args := set.build("orders", id, orderColumns)

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	order, err := scanOrder(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, translateError(err)
	}

	return order, nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var order model.Order
	var items []byte
	err := row.Scan(&order.ID, &order.CustomerName, &order.Email, &order.Address, &order.Phone,
		&items, &order.Total, &order.PaymentMethod, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Items = []model.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return &order, nil
}
