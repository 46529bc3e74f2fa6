package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSQSClient is a mock implementation of the SQS client for testing.
type mockSQSClient struct {
	sendMessageFunc func(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, params, optFns...)
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_PublishNotification(t *testing.T) {
	queueURL := "https://sqs.us-east-1.amazonaws.com/123456789/order-notifications"
	msg := model.OrderNotification{
		Kind:    model.NotificationShipped,
		Email:   "buyer@example.com",
		OrderID: "1a2b3c4d-0000-4000-8000-000000000000",
		ShortID: "1a2b3c4d",
	}

	t.Run("successful message publish", func(t *testing.T) {
		// given
		var sent model.OrderNotification
		mockClient := &mockSQSClient{
			sendMessageFunc: func(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
				assert.Equal(t, queueURL, *params.QueueUrl)
				require.NotNil(t, params.MessageBody)
				require.NoError(t, json.Unmarshal([]byte(*params.MessageBody), &sent))
				assert.Equal(t, "shipped", *params.MessageAttributes[kindAttribute].StringValue)
				return &sqs.SendMessageOutput{MessageId: aws.String("test-message-id")}, nil
			},
		}
		publisher := NewPublisher(mockClient, queueURL)

		// when
		err := publisher.PublishNotification(context.Background(), msg)

		// then
		require.NoError(t, err)
		assert.Equal(t, msg, sent)
	})

	t.Run("error sending message", func(t *testing.T) {
		// given
		mockClient := &mockSQSClient{
			sendMessageFunc: func(_ context.Context, _ *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
				return nil, errors.New("throttled")
			},
		}
		publisher := NewPublisher(mockClient, queueURL)

		// when
		err := publisher.PublishNotification(context.Background(), msg)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
	})
}
