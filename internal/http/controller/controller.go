package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"github.com/iyhunko/shop-with-sqs/internal/service"
)

// Controller handles general HTTP requests.
type Controller struct {
	ping func(ctx context.Context) error
}

// New creates a new Controller that reports storage health through ping.
func New(ping func(ctx context.Context) error) *Controller {
	return &Controller{
		ping: ping,
	}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	if con.ping != nil {
		if err := con.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// respondError writes err as a JSON message. Validation and constraint errors
// become 400, missing records 404 with notFound as message, anything else
// fallbackStatus with the underlying message.
func respondError(c *gin.Context, err error, notFound string, fallbackStatus int) {
	var validationErr *service.ValidationError
	var constraintErr *repository.ConstraintError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &constraintErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": constraintErr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
	default:
		c.JSON(fallbackStatus, gin.H{"message": err.Error()})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
