package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDoc struct {
	ID          string     `bson:"_id"`
	EventType   string     `bson:"event_type"`
	EventData   string     `bson:"event_data"`
	Status      string     `bson:"status"`
	CreatedAt   time.Time  `bson:"created_at"`
	ProcessedAt *time.Time `bson:"processed_at,omitempty"`
}

// EventRepository stores outbox events. Payloads are kept as JSON text.
type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection(eventsCollection),
	}
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	event.InitMeta()

	doc := eventDoc{
		ID:          event.ID.String(),
		EventType:   event.EventType,
		EventData:   string(event.EventData),
		Status:      string(event.Status),
		CreatedAt:   event.CreatedAt,
		ProcessedAt: event.ProcessedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", translateError(err))
	}

	return event, nil
}

func (r *EventRepository) List(ctx context.Context, query repository.Query) ([]*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	status := string(model.EventStatusPending)
	if v, ok := query.Values[repository.StatusField]; ok && v != "" {
		status = v
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(query.EffectiveLimit()))

	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	events := make([]*model.Event, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", doc.ID, err)
		}
		events = append(events, &model.Event{
			ID:          id,
			EventType:   doc.EventType,
			EventData:   json.RawMessage(doc.EventData),
			Status:      model.EventStatus(doc.Status),
			CreatedAt:   doc.CreatedAt,
			ProcessedAt: doc.ProcessedAt,
		})
	}

	return events, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":       string(status),
		"processed_at": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}
