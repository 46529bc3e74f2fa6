package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel used by Broker.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Handler processes a decoded order notification.
type Handler func(ctx context.Context, msg model.OrderNotification) error

// Broker publishes and consumes order notifications over a single durable queue.
type Broker struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
	mu      sync.RWMutex
}

// NewBroker dials RabbitMQ and prepares the notification queue.
func NewBroker(cfg config.RabbitMQConfig) (*Broker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	broker, err := NewBrokerWithChannel(channel, cfg.Queue, cfg.PrefetchCount)
	if err != nil {
		conn.Close()
		return nil, err
	}
	broker.conn = conn

	return broker, nil
}

// NewBrokerWithChannel builds a Broker on an already opened channel.
func NewBrokerWithChannel(channel Channel, queue string, prefetchCount int) (*Broker, error) {
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	_, err := channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &Broker{channel: channel, queue: queue}, nil
}

// PublishNotification sends an order notification as a persistent JSON message.
func (b *Broker) PublishNotification(ctx context.Context, msg model.OrderNotification) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	err = b.channel.PublishWithContext(
		ctx,
		"",      // exchange
		b.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         string(msg.Kind),
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	slog.Info("Message published to RabbitMQ",
		slog.String("queue", b.queue),
		slog.String("kind", string(msg.Kind)),
		slog.String("order_id", msg.OrderID),
	)
	return nil
}

// Consume delivers queued notifications to handler until the context is
// cancelled or the delivery channel closes.
func (b *Broker) Consume(ctx context.Context, handler Handler) error {
	b.mu.RLock()
	deliveries, err := b.channel.Consume(
		b.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("Starting RabbitMQ consumer", slog.String("queue", b.queue))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping RabbitMQ consumer")
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			b.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (b *Broker) handleDelivery(ctx context.Context, delivery amqp.Delivery, handler Handler) {
	var msg model.OrderNotification
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		slog.Error("Dropping malformed message", slog.Any("err", err))
		if err := delivery.Reject(false); err != nil {
			slog.Error("Error rejecting message", slog.Any("err", err))
		}
		return
	}

	metrics.MessagesConsumed.Inc()
	slog.Info("Received order notification",
		slog.String("kind", string(msg.Kind)),
		slog.String("order_id", msg.OrderID),
		slog.String("short_id", msg.ShortID),
	)

	if err := handler(ctx, msg); err != nil {
		// one redelivery, then the message is dropped
		requeue := !delivery.Redelivered
		slog.Error("Error processing message", slog.Any("err", err), slog.Bool("requeue", requeue))
		if err := delivery.Nack(false, requeue); err != nil {
			slog.Error("Error nacking message", slog.Any("err", err))
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		slog.Error("Error acking message", slog.Any("err", err))
	}
}

// Close closes the channel and the underlying connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
