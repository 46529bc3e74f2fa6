package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/notification"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMailer is a mock implementation of notification.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail notification.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("sends rendered mail", func(t *testing.T) {
		// given
		mailer := new(MockMailer)
		mailer.On("Send", ctx, mock.MatchedBy(func(m notification.Mail) bool {
			return m.To == "buyer@example.com" && m.Subject == `আপনার "খিচুড়ি ঘর" এর অর্ডার #1a2b3c4d পাঠানো হয়েছে`
		})).Return(nil)
		before := testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("shipped"))

		// when
		notification.NewDispatcher(mailer, "খিচুড়ি ঘর").Notify(ctx, model.NotificationShipped, "buyer@example.com", "1a2b3c4d")

		// then
		mailer.AssertExpectations(t)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("shipped")))
	})

	t.Run("skips empty recipient", func(t *testing.T) {
		mailer := new(MockMailer)
		before := testutil.ToFloat64(metrics.NotificationsSkipped.WithLabelValues("cancelled"))

		notification.NewDispatcher(mailer, "shop").Notify(ctx, model.NotificationCancelled, "", "1a2b3c4d")

		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsSkipped.WithLabelValues("cancelled")))
	})

	t.Run("absorbs transport failure", func(t *testing.T) {
		// given
		mailer := new(MockMailer)
		mailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp: 535 authentication failed"))
		before := testutil.ToFloat64(metrics.NotificationsFailed.WithLabelValues("completed"))

		// when
		err := notification.NewDispatcher(mailer, "shop").Handle(ctx, model.OrderNotification{
			Kind: model.NotificationCompleted, Email: "buyer@example.com", ShortID: "1a2b3c4d",
		})

		// then
		require.NoError(t, err)
		mailer.AssertExpectations(t)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsFailed.WithLabelValues("completed")))
	})
}
