package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
)

// MessageRepository stores contact-form messages.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new MessageRepository instance.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message into the database.
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) (*model.Message, error) {
	if message.ID == uuid.Nil {
		message.InitMeta()
	}

	query := `INSERT INTO messages (id, name, email, message, timestamp, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, message.ID, message.Name, message.Email, message.Message, message.Timestamp, message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return message, nil
}

// List returns all messages, newest first.
func (r *MessageRepository) List(ctx context.Context) ([]*model.Message, error) {
	query := `SELECT id, name, email, message, timestamp, created_at FROM messages ORDER BY created_at DESC, id DESC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.Timestamp, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}
