package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the status of an event in the outbox pattern.
type EventStatus string

const (
	// EventStatusPending indicates the event has been created but not yet processed
	EventStatusPending EventStatus = "pending"
	// EventStatusProcessed indicates the event has been successfully processed
	EventStatusProcessed EventStatus = "processed"
	// EventStatusFailed indicates the event processing has failed
	EventStatusFailed EventStatus = "failed"
)

// EventTypeOrderNotification marks outbox rows carrying an OrderNotification.
const EventTypeOrderNotification = "order.notification"

// Event represents an event entity for the outbox pattern.
type Event struct {
	ID          uuid.UUID
	EventType   string
	EventData   json.RawMessage
	Status      EventStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InitMeta initializes the event metadata including ID and timestamps.
func (e *Event) InitMeta() {
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	if e.Status == "" {
		e.Status = EventStatusPending
	}
}

// NotificationKind selects one of the order email templates.
type NotificationKind string

const (
	NotificationCancelled NotificationKind = "cancelled"
	NotificationCompleted NotificationKind = "completed"
	NotificationPreparing NotificationKind = "preparing"
	NotificationShipped   NotificationKind = "shipped"
)

// OrderNotification is the payload carried from the outbox to the notification service.
type OrderNotification struct {
	Kind    NotificationKind `json:"kind"`
	Email   string           `json:"email"`
	OrderID string           `json:"order_id"`
	ShortID string           `json:"short_id"`
}

// NewOrderNotificationEvent wraps a notification for order in a pending outbox event.
func NewOrderNotificationEvent(kind NotificationKind, order *Order) (*Event, error) {
	data, err := json.Marshal(OrderNotification{
		Kind:    kind,
		Email:   order.Email,
		OrderID: order.ID.String(),
		ShortID: order.ShortID(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		EventType: EventTypeOrderNotification,
		EventData: data,
		Status:    EventStatusPending,
	}, nil
}
