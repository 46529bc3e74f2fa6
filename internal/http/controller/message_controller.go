package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/service"
)

// MessageController handles contact form submissions.
type MessageController struct {
	messageService *service.MessageService
}

// NewMessageController creates a new MessageController with the given message service.
func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

// CreateMessageRequest represents the contact form body. Timestamp is optional.
type CreateMessageRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MessageResponse represents the response body for a message.
type MessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// CreateMessage handles the HTTP POST request for a contact form submission.
func (mc *MessageController) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := mc.messageService.CreateMessage(c.Request.Context(), &model.Message{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		respondError(c, err, "Message not found", http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(created))
}

// ListMessages handles the HTTP GET request for listing messages, newest first.
func (mc *MessageController) ListMessages(c *gin.Context) {
	messages, err := mc.messageService.ListMessages(c.Request.Context())
	if err != nil {
		respondError(c, err, "Message not found", http.StatusInternalServerError)
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, toMessageResponse(msg))
	}

	c.JSON(http.StatusOK, response)
}

func toMessageResponse(msg *model.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID.String(),
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		Timestamp: msg.Timestamp,
	}
}
