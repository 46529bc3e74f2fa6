package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"github.com/iyhunko/shop-with-sqs/internal/service"
	"github.com/shopspring/decimal"
)

const productNotFound = "Product not found"

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Recipe      string          `json:"recipe"`
	Discount    float64         `json:"discount" binding:"gte=0"`
}

// UpdateProductRequest carries the whitelisted product fields. Absent fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Discount    *float64         `json:"discount"`
	Recipe      *string          `json:"recipe"`
}

// AddReviewRequest represents the request body for adding a review.
// Rating is accepted as a JSON number or a numeric string.
type AddReviewRequest struct {
	Author  string          `json:"author"`
	Rating  decimal.Decimal `json:"rating"`
	Comment string          `json:"comment"`
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Recipe      string          `json:"recipe"`
	Discount    float64         `json:"discount"`
	Reviews     []model.Review  `json:"reviews"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListProducts handles the HTTP GET request for listing all products in insertion order.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, productNotFound, http.StatusInternalServerError)
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		response = append(response, toProductResponse(product))
	}

	c.JSON(http.StatusOK, response)
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := pc.productService.CreateProduct(c.Request.Context(), &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Recipe:      req.Recipe,
		Discount:    req.Discount,
	})
	if err != nil {
		respondError(c, err, productNotFound, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(created))
}

// UpdateProduct handles the HTTP PUT request for changing whitelisted product fields.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// an empty body is an empty patch
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), id, model.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Discount:    req.Discount,
		Recipe:      req.Recipe,
	})
	if err != nil {
		respondError(c, err, productNotFound, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(updated))
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err, productNotFound, http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddReview handles the HTTP POST request for appending a review to a product.
// Only the stored review is returned.
func (pc *ProductController) AddReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.NewReviewValidationError(), productNotFound, http.StatusBadRequest)
		return
	}

	review, err := pc.productService.AddReview(c.Request.Context(), id, &model.Review{
		Author:  req.Author,
		Rating:  req.Rating.InexactFloat64(),
		Comment: req.Comment,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, repository.ErrNotFound) {
			respondError(c, err, productNotFound, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding review", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, review)
}

func toProductResponse(product *model.Product) ProductResponse {
	reviews := product.Reviews
	if reviews == nil {
		reviews = []model.Review{}
	}

	return ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Recipe:      product.Recipe,
		Discount:    product.Discount,
		Reviews:     reviews,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
