package service

import (
	"context"
	"strings"

	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

const messageRequiredMessage = "Name, email, and message are required."

type MessageService struct {
	repo repository.MessageRepository
}

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

func (ms *MessageService) ListMessages(ctx context.Context) ([]*model.Message, error) {
	return ms.repo.List(ctx)
}

func (ms *MessageService) CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		return nil, newValidationError(messageRequiredMessage)
	}

	msg.InitMeta()

	created, err := ms.repo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	metrics.MessagesReceived.Inc()

	return created, nil
}
