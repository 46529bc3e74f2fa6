package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted",
	})

	ProductReviewsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_reviews_added_total",
		Help: "The total number of reviews appended to products",
	})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "The total number of orders placed",
	})

	// OrderStatusChanges counts status transitions by the new status label.
	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "The total number of order status changes",
	}, []string{"status"})

	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messages_received_total",
		Help: "The total number of contact messages stored",
	})

	OutboxEventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "The total number of outbox events handed to the broker",
	})

	OutboxEventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "The total number of outbox events that could not be published",
	})

	// MessagesConsumed counts order notifications decoded by a broker consumer.
	MessagesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_messages_consumed_total",
		Help: "The total number of order notifications received from the broker",
	})

	// NotificationsSent, NotificationsFailed and NotificationsSkipped are labelled by notification kind.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "The total number of order emails sent",
	}, []string{"kind"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "The total number of order emails that failed to send",
	}, []string{"kind"})

	NotificationsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_skipped_total",
		Help: "The total number of order emails skipped for lack of a recipient",
	}, []string{"kind"})
)
