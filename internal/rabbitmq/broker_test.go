package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/iyhunko/shop-with-sqs/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueue = "order-notifications"

type fakeChannel struct {
	qosErr     error
	declareErr error
	publishErr error
	consumeErr error

	prefetch   int
	declared   string
	durable    bool
	published  []amqp.Publishing
	routingKey string
	deliveries chan amqp.Delivery
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.declared = name
	f.durable = durable
	return amqp.Queue{Name: name}, f.declareErr
}

func (f *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	f.prefetch = prefetchCount
	return f.qosErr
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.routingKey = key
	f.published = append(f.published, msg)
	return f.publishErr
}

func (f *fakeChannel) Consume(_, _ string, autoAck, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	if autoAck {
		return nil, errors.New("auto-ack not expected")
	}
	return f.deliveries, f.consumeErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type acknowledgement struct {
	acked    bool
	nacked   bool
	rejected bool
	requeue  bool
}

func (a *acknowledgement) Ack(_ uint64, _ bool) error {
	a.acked = true
	return nil
}

func (a *acknowledgement) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *acknowledgement) Reject(_ uint64, requeue bool) error {
	a.rejected = true
	a.requeue = requeue
	return nil
}

func newTestBroker(t *testing.T) (*Broker, *fakeChannel) {
	t.Helper()
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 4)}
	broker, err := NewBrokerWithChannel(ch, testQueue, 5)
	require.NoError(t, err)
	return broker, ch
}

func TestNewBrokerWithChannel(t *testing.T) {
	t.Run("declares durable queue and sets prefetch", func(t *testing.T) {
		_, ch := newTestBroker(t)

		assert.Equal(t, testQueue, ch.declared)
		assert.True(t, ch.durable)
		assert.Equal(t, 5, ch.prefetch)
	})

	t.Run("closes channel when queue declaration fails", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}

		broker, err := NewBrokerWithChannel(ch, testQueue, 5)

		require.Error(t, err)
		assert.Nil(t, broker)
		assert.Contains(t, err.Error(), "failed to declare queue")
		assert.True(t, ch.closed)
	})

	t.Run("closes channel when qos fails", func(t *testing.T) {
		ch := &fakeChannel{qosErr: errors.New("channel closed")}

		_, err := NewBrokerWithChannel(ch, testQueue, 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to set QoS")
		assert.True(t, ch.closed)
	})
}

func TestBroker_PublishNotification(t *testing.T) {
	t.Run("publishes persistent json message", func(t *testing.T) {
		// given
		broker, ch := newTestBroker(t)
		msg := model.OrderNotification{Kind: model.NotificationShipped, Email: "buyer@example.com", OrderID: "abc", ShortID: "1a2b3c4d"}

		// when
		err := broker.PublishNotification(context.Background(), msg)

		// then
		require.NoError(t, err)
		require.Len(t, ch.published, 1)
		assert.Equal(t, testQueue, ch.routingKey)
		assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
		assert.Equal(t, "application/json", ch.published[0].ContentType)
		assert.Equal(t, "shipped", ch.published[0].Type)

		var decoded model.OrderNotification
		require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
		assert.Equal(t, msg, decoded)
	})

	t.Run("wraps publish error", func(t *testing.T) {
		broker, ch := newTestBroker(t)
		ch.publishErr = errors.New("connection reset")

		err := broker.PublishNotification(context.Background(), model.OrderNotification{Kind: model.NotificationCompleted})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish message")
	})
}

func TestBroker_handleDelivery(t *testing.T) {
	body := []byte(`{"kind":"preparing","email":"buyer@example.com","order_id":"abc","short_id":"1a2b3c4d"}`)

	t.Run("acks after successful handling", func(t *testing.T) {
		// given
		broker, _ := newTestBroker(t)
		ack := &acknowledgement{}
		var got model.OrderNotification

		// when
		broker.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body}, func(_ context.Context, msg model.OrderNotification) error {
			got = msg
			return nil
		})

		// then
		assert.True(t, ack.acked)
		assert.Equal(t, model.NotificationPreparing, got.Kind)
		assert.Equal(t, "1a2b3c4d", got.ShortID)
	})

	t.Run("rejects malformed body without requeue", func(t *testing.T) {
		broker, _ := newTestBroker(t)
		ack := &acknowledgement{}
		called := false

		broker.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("not json")}, func(context.Context, model.OrderNotification) error {
			called = true
			return nil
		})

		assert.False(t, called)
		assert.True(t, ack.rejected)
		assert.False(t, ack.requeue)
	})

	t.Run("requeues first failure", func(t *testing.T) {
		broker, _ := newTestBroker(t)
		ack := &acknowledgement{}

		broker.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body}, func(context.Context, model.OrderNotification) error {
			return errors.New("smtp down")
		})

		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drops redelivered failure", func(t *testing.T) {
		broker, _ := newTestBroker(t)
		ack := &acknowledgement{}

		broker.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: true}, func(context.Context, model.OrderNotification) error {
			return errors.New("smtp down")
		})

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

func TestBroker_Consume(t *testing.T) {
	t.Run("stops when context is cancelled", func(t *testing.T) {
		// given
		broker, ch := newTestBroker(t)
		ack := &acknowledgement{}
		ch.deliveries <- amqp.Delivery{Acknowledger: ack, Body: []byte(`{"kind":"cancelled","short_id":"1a2b3c4d"}`)}
		handled := make(chan struct{}, 1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			errCh <- broker.Consume(ctx, func(context.Context, model.OrderNotification) error {
				handled <- struct{}{}
				return nil
			})
		}()

		// when
		select {
		case <-handled:
		case <-time.After(time.Second):
			t.Fatal("delivery was not handled")
		}
		cancel()

		// then
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop")
		}
	})

	t.Run("returns error when delivery channel closes", func(t *testing.T) {
		broker, ch := newTestBroker(t)
		close(ch.deliveries)

		err := broker.Consume(context.Background(), func(context.Context, model.OrderNotification) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery channel closed")
	})

	t.Run("wraps consume registration error", func(t *testing.T) {
		broker, ch := newTestBroker(t)
		ch.consumeErr = errors.New("not found")

		err := broker.Consume(context.Background(), func(context.Context, model.OrderNotification) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to register consumer")
	})
}

func TestBroker_Close(t *testing.T) {
	broker, ch := newTestBroker(t)

	require.NoError(t, broker.Close())
	assert.True(t, ch.closed)
}
