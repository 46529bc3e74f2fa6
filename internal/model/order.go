package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is one of the storefront's fixed status labels.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "পেন্ডিং"
	OrderStatusPreparing OrderStatus = "প্রস্তুত হচ্ছে"
	OrderStatusShipped   OrderStatus = "পাঠানো হয়েছে"
	OrderStatusCompleted OrderStatus = "সম্পন্ন"
	OrderStatusCancelled OrderStatus = "বাতিল"
)

// OrderStatuses holds every recognized status, Pending first.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a recognized status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

const shortIDLength = 8

// Order represents a customer order. Line items are copies of product data taken at checkout.
type Order struct {
	ID            uuid.UUID
	CustomerName  string
	Email         string
	Address       string
	Phone         string
	Items         []OrderItem
	Total         decimal.Decimal
	PaymentMethod string
	Status        OrderStatus
	UpdatedAt     time.Time
	CreatedAt     time.Time
}

// InitMeta initializes the order metadata and applies defaults.
func (o *Order) InitMeta() {
	o.ID = uuid.New()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
}

// ShortID is the human-facing order reference used in notifications.
func (o *Order) ShortID() string {
	return o.ID.String()[:shortIDLength]
}

// OrderItem is a denormalized line item. ProductID is not checked against the catalog.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Discount  float64         `json:"discount"`
}

// OrderPatch lists the order fields a client may change. Nil fields are left untouched.
type OrderPatch struct {
	CustomerName  *string
	Email         *string
	Address       *string
	Phone         *string
	Items         *[]OrderItem
	Total         *decimal.Decimal
	PaymentMethod *string
	Status        *OrderStatus
}

// Apply copies the set fields of the patch onto the order.
func (p OrderPatch) Apply(order *Order) {
	if p.CustomerName != nil {
		order.CustomerName = *p.CustomerName
	}
	if p.Email != nil {
		order.Email = *p.Email
	}
	if p.Address != nil {
		order.Address = *p.Address
	}
	if p.Phone != nil {
		order.Phone = *p.Phone
	}
	if p.Items != nil {
		order.Items = *p.Items
	}
	if p.Total != nil {
		order.Total = *p.Total
	}
	if p.PaymentMethod != nil {
		order.PaymentMethod = *p.PaymentMethod
	}
	if p.Status != nil {
		order.Status = *p.Status
	}
}
