package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Image       string               `bson:"image"`
	Recipe      string               `bson:"recipe"`
	Discount    float64              `bson:"discount"`
	Reviews     []reviewDoc          `bson:"reviews"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDoc struct {
	ID      string    `bson:"id"`
	Author  string    `bson:"author"`
	Rating  float64   `bson:"rating"`
	Comment string    `bson:"comment"`
	Date    time.Time `bson:"date"`
}

func newReviewDoc(r *model.Review) reviewDoc {
	return reviewDoc{ID: r.ID.String(), Author: r.Author, Rating: r.Rating, Comment: r.Comment, Date: r.Date}
}

func (d reviewDoc) model() (model.Review, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Review{}, fmt.Errorf("invalid review id %q: %w", d.ID, err)
	}
	return model.Review{ID: id, Author: d.Author, Rating: d.Rating, Comment: d.Comment, Date: d.Date}, nil
}

func newProductDoc(p *model.Product) (*productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}
	reviews := make([]reviewDoc, 0, len(p.Reviews))
	for i := range p.Reviews {
		reviews = append(reviews, newReviewDoc(&p.Reviews[i]))
	}
	return &productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Image:       p.Image,
		Recipe:      p.Recipe,
		Discount:    p.Discount,
		Reviews:     reviews,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d *productDoc) model() (*model.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", d.ID, err)
	}
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}
	reviews := make([]model.Review, 0, len(d.Reviews))
	for _, rd := range d.Reviews {
		r, err := rd.model()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return &model.Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Image:       d.Image,
		Recipe:      d.Recipe,
		Discount:    d.Discount,
		Reviews:     reviews,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// ProductRepository stores products as documents with reviews embedded.
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(productsCollection),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if product.ID == uuid.Nil {
		product.InitMeta()
	}
	if product.Reviews == nil {
		product.Reviews = []model.Review{}
	}

	doc, err := newProductDoc(product)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", translateError(err))
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*model.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var doc productDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", translateError(err))
	}

	return doc.model()
}

func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		price, err := toDecimal128(*patch.Price)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Recipe != nil {
		set["recipe"] = *patch.Recipe
	}
	if patch.Discount != nil {
		set["discount"] = *patch.Discount
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", translateError(err))
	}

	return doc.model()
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AppendReview pushes review onto the product's reviews array.
func (r *ProductRepository) AppendReview(ctx context.Context, id uuid.UUID, review *model.Review) (*model.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if review.ID == uuid.Nil {
		review.InitMeta()
	}

	update := bson.M{
		"$push": bson.M{"reviews": newReviewDoc(review)},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to append review: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}

	return review, nil
}
