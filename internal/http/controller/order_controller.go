package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/service"
	"github.com/shopspring/decimal"
)

const orderNotFound = "Order not found"

// OrderController handles HTTP requests for order operations.
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController creates a new OrderController with the given order service.
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// CreateOrderRequest represents the checkout request body.
type CreateOrderRequest struct {
	CustomerName  string            `json:"customerName"`
	Email         string            `json:"email"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone"`
	Items         []model.OrderItem `json:"items"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        model.OrderStatus `json:"status"`
}

// UpdateOrderRequest carries the order fields a client may change. Absent fields are left unchanged.
type UpdateOrderRequest struct {
	CustomerName  *string            `json:"customerName"`
	Email         *string            `json:"email"`
	Address       *string            `json:"address"`
	Phone         *string            `json:"phone"`
	Items         *[]model.OrderItem `json:"items"`
	Total         *decimal.Decimal   `json:"total"`
	PaymentMethod *string            `json:"paymentMethod"`
	Status        *model.OrderStatus `json:"status"`
}

// OrderResponse represents the response body for an order.
type OrderResponse struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customerName"`
	Email         string            `json:"email"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone"`
	Items         []model.OrderItem `json:"items"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        model.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ListOrders handles the HTTP GET request for listing orders, newest first.
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, orderNotFound, http.StatusInternalServerError)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}

	c.JSON(http.StatusOK, response)
}

// CreateOrder handles the HTTP POST request for checkout.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := oc.orderService.CreateOrder(c.Request.Context(), &model.Order{
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Address:       req.Address,
		Phone:         req.Phone,
		Items:         req.Items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	})
	if err != nil {
		respondError(c, err, orderNotFound, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(created))
}

// UpdateOrder handles the HTTP PUT request for changing an order. A status
// change may queue a customer notification.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := oc.orderService.UpdateOrder(c.Request.Context(), id, model.OrderPatch{
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Address:       req.Address,
		Phone:         req.Phone,
		Items:         req.Items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	})
	if err != nil {
		respondError(c, err, orderNotFound, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(updated))
}

func toOrderResponse(order *model.Order) OrderResponse {
	items := order.Items
	if items == nil {
		items = []model.OrderItem{}
	}

	return OrderResponse{
		ID:            order.ID.String(),
		CustomerName:  order.CustomerName,
		Email:         order.Email,
		Address:       order.Address,
		Phone:         order.Phone,
		Items:         items,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
