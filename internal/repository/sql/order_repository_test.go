package sql_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"github.com/iyhunko/shop-with-sqs/internal/repository/sql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{"id", "customer_name", "email", "address", "phone", "items", "total", "payment_method", "status", "created_at", "updated_at"}

func orderRow(id uuid.UUID, email string, status model.OrderStatus, createdAt time.Time) []driver.Value {
	items := `[{"productId":"p1","name":"Khichuri","qty":2,"price":120,"discount":0}]`
	return []driver.Value{id.String(), "Rahim", email, "Dhaka", "01700000000", []byte(items), "240", "cash", string(status), createdAt, createdAt}
}

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sql.NewOrderRepository(db)

	// given
	order := &model.Order{
		CustomerName: "Rahim",
		Email:        "rahim@example.com",
		Items:        []model.OrderItem{{ProductID: "p1", Name: "Khichuri", Quantity: 2, Price: decimal.RequireFromString("120")}},
		Total:        decimal.RequireFromString("240"),
	}
	mock.ExpectPrepare("INSERT INTO orders").
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), "Rahim", "rahim@example.com", "", "", sqlmock.AnyArg(), "240", "", model.OrderStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// when
	created, err := repo.Create(context.Background(), order)

	// then
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sql.NewOrderRepository(db)

	// given
	newer, older := uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectPrepare("SELECT (.+) FROM orders ORDER BY created_at DESC").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(orderRow(newer, "a@example.com", model.OrderStatusShipped, now)...).
			AddRow(orderRow(older, "b@example.com", model.OrderStatusPending, now.Add(-time.Hour))...))

	// when
	orders, err := repo.List(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer, orders[0].ID)
	assert.Equal(t, model.OrderStatusShipped, orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sql.NewOrderRepository(db)

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectPrepare("SELECT (.+) FROM orders WHERE id = \\$1").
			ExpectQuery().
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(orderRow(id, "a@example.com", model.OrderStatusPending, time.Now())...))

		order, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "a@example.com", order.Email)
		assert.True(t, decimal.RequireFromString("240").Equal(order.Total))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectPrepare("SELECT (.+) FROM orders WHERE id = \\$1").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sql.NewOrderRepository(db)

	t.Run("status change", func(t *testing.T) {
		// given
		id := uuid.New()
		status := model.OrderStatusCancelled
		mock.ExpectPrepare(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
			ExpectQuery().
			WithArgs(status, sqlmock.AnyArg(), id).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(orderRow(id, "a@example.com", status, time.Now())...))

		// when
		order, err := repo.Update(context.Background(), id, model.OrderPatch{Status: &status})

		// then
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, order.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectPrepare("UPDATE orders SET").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.Update(context.Background(), uuid.New(), model.OrderPatch{})

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
