package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	messagesCollection = "messages"
	eventsCollection   = "events"

	connectTimeout = 10 * time.Second
	readTimeout    = 5 * time.Second
	writeTimeout   = 10 * time.Second
)

// Storage owns the MongoDB client and the shop database handle.
type Storage struct {
	client   *mongo.Client
	database *mongo.Database
}

// New connects to MongoDB and verifies the primary is reachable.
func New(ctx context.Context, cfg config.MongoConfig) (*Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewWithClient(client, cfg.Database), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *mongo.Client, database string) *Storage {
	return &Storage{
		client:   client,
		database: client.Database(database),
	}
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ErrNoReplicaSet is returned when the server cannot run multi-document transactions.
var ErrNoReplicaSet = errors.New("mongodb must run as a replica set or behind mongos to support transactions")

// RequireReplicaSet fails unless the server is a replica set member or a mongos router.
// Order status changes and their outbox event are written in one transaction.
func (s *Storage) RequireReplicaSet(ctx context.Context) error {
	var reply struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := s.database.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		return fmt.Errorf("failed to run hello: %w", err)
	}
	if reply.SetName == "" && reply.Msg != "isdbgrid" {
		return ErrNoReplicaSet
	}
	return nil
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

func (s *Storage) StartSession() (mongo.Session, error) {
	return s.client.StartSession()
}

// CreateIndexes backs the list orderings and the outbox scan.
func (s *Storage) CreateIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {{Keys: bson.D{{Key: "created_at", Value: 1}}}},
		ordersCollection:   {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
		messagesCollection: {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
		eventsCollection:   {{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}}},
	}
	for name, models := range indexes {
		if _, err := s.database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// NewStore wires the MongoDB repositories around s.
func NewStore(s *Storage) *repository.Store {
	orders := NewOrderRepository(s.database)
	events := NewEventRepository(s.database)
	return &repository.Store{
		Products:     NewProductRepository(s.database),
		Orders:       orders,
		Messages:     NewMessageRepository(s.database),
		Events:       events,
		Transactions: NewTransactionalRepository(s, orders, events),
		Ping:         s.Ping,
		Close:        s.Close,
	}
}
