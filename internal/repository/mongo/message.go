package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Message   string    `bson:"message"`
	Timestamp string    `bson:"timestamp"`
	CreatedAt time.Time `bson:"created_at"`
}

type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		collection: db.Collection(messagesCollection),
	}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) (*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if message.ID == uuid.Nil {
		message.InitMeta()
	}

	doc := messageDoc{
		ID:        message.ID.String(),
		Name:      message.Name,
		Email:     message.Email,
		Message:   message.Message,
		Timestamp: message.Timestamp,
		CreatedAt: message.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", translateError(err))
	}

	return message, nil
}

func (r *MessageRepository) List(ctx context.Context) ([]*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]*model.Message, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid message id %q: %w", doc.ID, err)
		}
		messages = append(messages, &model.Message{
			ID:        id,
			Name:      doc.Name,
			Email:     doc.Email,
			Message:   doc.Message,
			Timestamp: doc.Timestamp,
			CreatedAt: doc.CreatedAt,
		})
	}

	return messages, nil
}
