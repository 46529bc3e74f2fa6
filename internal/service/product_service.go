package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

// ReviewRequiredMessage is reported when a review lacks author, rating or comment.
const ReviewRequiredMessage = "Author, rating, and comment are required."

type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

func (ps *ProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return ps.repo.List(ctx)
}

func (ps *ProductService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.InitMeta()

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	slog.Info("Product created", slog.String("product_id", created.ID.String()))

	return created, nil
}

// UpdateProduct changes only the whitelisted fields carried by patch.
// An empty patch returns the stored product untouched.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if patch.IsEmpty() {
		return ps.repo.FindByID(ctx, id)
	}
	return ps.repo.Update(ctx, id, patch)
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ps.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	slog.Info("Product deleted", slog.String("product_id", id.String()))

	return nil
}

// AddReview appends review to the product and returns the stored review alone.
// Incomplete reviews are rejected before the product is looked up.
func (ps *ProductService) AddReview(ctx context.Context, productID uuid.UUID, review *model.Review) (*model.Review, error) {
	if strings.TrimSpace(review.Author) == "" || review.Rating == 0 || strings.TrimSpace(review.Comment) == "" {
		return nil, NewReviewValidationError()
	}

	review.InitMeta()

	stored, err := ps.repo.AppendReview(ctx, productID, review)
	if err != nil {
		return nil, err
	}

	metrics.ProductReviewsAdded.Inc()

	return stored, nil
}

// NewReviewValidationError reports an incomplete or malformed review.
func NewReviewValidationError() *ValidationError {
	return newValidationError(ReviewRequiredMessage)
}
