package sqs

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClient_Integration_WithLocalStack needs LocalStack on localhost:4566 with the order-notifications queue.
// Run with: go test -v -run Integration ./internal/sqs/...
func TestClient_Integration_WithLocalStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	conf := config.AWSConfig{
		Region:      "us-east-1",
		Endpoint:    os.Getenv("AWS_ENDPOINT"),
		SQSQueueURL: os.Getenv("SQS_QUEUE_URL"),
	}
	if conf.Endpoint == "" {
		conf.Endpoint = "http://localhost:4566"
	}
	if conf.SQSQueueURL == "" {
		conf.SQSQueueURL = "http://localhost:4566/000000000000/order-notifications"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sqsClient, err := NewClient(ctx, conf)
	require.NoError(t, err)

	if _, err := sqsClient.ListQueues(ctx, &sqs.ListQueuesInput{}); err != nil {
		t.Skipf("LocalStack not available: %v", err)
	}

	t.Run("publish and receive notification", func(t *testing.T) {
		// given
		msg := model.OrderNotification{
			Kind:    model.NotificationPreparing,
			Email:   "buyer@example.com",
			OrderID: uuid.NewString(),
		}
		msg.ShortID = msg.OrderID[:8]

		// when
		err := NewPublisher(sqsClient, conf.SQSQueueURL).PublishNotification(ctx, msg)
		if err != nil {
			t.Skipf("Failed to publish message (queue may not exist): %v", err)
		}

		// then
		output, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(conf.SQSQueueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     2,
		})
		require.NoError(t, err)

		var found bool
		for _, sqsMsg := range output.Messages {
			var received model.OrderNotification
			if err := json.Unmarshal([]byte(*sqsMsg.Body), &received); err != nil || received.OrderID != msg.OrderID {
				continue
			}
			found = true
			assert.Equal(t, msg, received)

			_, err := sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(conf.SQSQueueURL),
				ReceiptHandle: sqsMsg.ReceiptHandle,
			})
			assert.NoError(t, err)
			break
		}

		assert.True(t, found, "Did not find our test message in the queue")
	})
}
