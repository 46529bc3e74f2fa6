package service

import "github.com/iyhunko/shop-with-sqs/internal/model"

var notificationKinds = map[model.OrderStatus]model.NotificationKind{
	model.OrderStatusCancelled: model.NotificationCancelled,
	model.OrderStatusCompleted: model.NotificationCompleted,
	model.OrderStatusPreparing: model.NotificationPreparing,
	model.OrderStatusShipped:   model.NotificationShipped,
}

// TransitionNotification returns the email kind owed for moving an order from
// original to requested. Unchanged statuses and moves into Pending owe nothing.
// Any status may follow any other.
func TransitionNotification(original, requested model.OrderStatus) (model.NotificationKind, bool) {
	if original == requested {
		return "", false
	}
	kind, ok := notificationKinds[requested]
	return kind, ok
}
