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

const productColumns = "id, name, description, price, image, recipe, discount, reviews, created_at, updated_at"

// ProductRepository stores products with their reviews embedded as a JSONB array.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	// Only initialize metadata if not already set
	if product.ID == uuid.Nil {
		product.InitMeta()
	}
	if product.Reviews == nil {
		product.Reviews = []model.Review{}
	}

	reviews, err := json.Marshal(product.Reviews)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reviews: %w", err)
	}

	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, product.ID, product.Name, product.Description, product.Price,
		product.Image, product.Recipe, product.Discount, reviews, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", translateError(err))
	}

	return product, nil
}

// List returns the whole catalog, oldest first.
func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return product, nil
}

// Update applies patch to the product and returns the stored result.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Price != nil {
		set.add("price", *patch.Price)
	}
	if patch.Image != nil {
		set.add("image", *patch.Image)
	}
	if patch.Recipe != nil {
		set.add("recipe", *patch.Recipe)
	}
	if patch.Discount != nil {
		set.add("discount", *patch.Discount)
	}
	set.add("updated_at", time.Now().UTC())

	query, args := set.build("products", id, productColumns)

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, translateError(err)
	}

	return product, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AppendReview adds review to the end of the product's review list.
func (r *ProductRepository) AppendReview(ctx context.Context, id uuid.UUID, review *model.Review) (*model.Review, error) {
	if review.ID == uuid.Nil {
		review.InitMeta()
	}

	data, err := json.Marshal([]*model.Review{review})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}

	query := `UPDATE products SET reviews = reviews || $1::jsonb, updated_at = $2 WHERE id = $3`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, data, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to append review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return review, nil
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var product model.Product
	var reviews []byte
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Image, &product.Recipe, &product.Discount, &reviews, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	product.Reviews = []model.Review{}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &product.Reviews); err != nil {
			return nil, fmt.Errorf("failed to decode reviews: %w", err)
		}
	}

	return &product, nil
}
