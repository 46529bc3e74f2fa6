package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDoc struct {
	ID            string               `bson:"_id"`
	CustomerName  string               `bson:"customer_name"`
	Email         string               `bson:"email"`
	Address       string               `bson:"address"`
	Phone         string               `bson:"phone"`
	Items         []orderItemDoc       `bson:"items"`
	Total         primitive.Decimal128 `bson:"total"`
	PaymentMethod string               `bson:"payment_method"`
	Status        string               `bson:"status"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type orderItemDoc struct {
	ProductID string               `bson:"product_id"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"qty"`
	Price     primitive.Decimal128 `bson:"price"`
	Discount  float64              `bson:"discount"`
}

func newOrderItemDocs(items []model.OrderItem) ([]orderItemDoc, error) {
	docs := make([]orderItemDoc, 0, len(items))
	for _, item := range items {
		price, err := toDecimal128(item.Price)
		if err != nil {
			return nil, err
		}
		docs = append(docs, orderItemDoc{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     price,
			Discount:  item.Discount,
		})
	}
	return docs, nil
}

func newOrderDoc(o *model.Order) (*orderDoc, error) {
	items, err := newOrderItemDocs(o.Items)
	if err != nil {
		return nil, err
	}
	total, err := toDecimal128(o.Total)
	if err != nil {
		return nil, err
	}
	return &orderDoc{
		ID:            o.ID.String(),
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Address:       o.Address,
		Phone:         o.Phone,
		Items:         items,
		Total:         total,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}, nil
}

func (d *orderDoc) model() (*model.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", d.ID, err)
	}
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		price, err := fromDecimal128(item.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     price,
			Discount:  item.Discount,
		})
	}
	return &model.Order{
		ID:            id,
		CustomerName:  d.CustomerName,
		Email:         d.Email,
		Address:       d.Address,
		Phone:         d.Phone,
		Items:         items,
		Total:         total,
		PaymentMethod: d.PaymentMethod,
		Status:        model.OrderStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(ordersCollection),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if order.ID == uuid.Nil {
		order.InitMeta()
	}

	doc, err := newOrderDoc(order)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", translateError(err))
	}

	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]*model.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", translateError(err))
	}

	return doc.model()
}

func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.CustomerName != nil {
		set["customer_name"] = *patch.CustomerName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Items != nil {
		items, err := newOrderItemDocs(*patch.Items)
		if err != nil {
			return nil, err
		}
		set["items"] = items
	}
	if patch.Total != nil {
		total, err := toDecimal128(*patch.Total)
		if err != nil {
			return nil, err
		}
		set["total"] = total
	}
	if patch.PaymentMethod != nil {
		set["payment_method"] = *patch.PaymentMethod
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", translateError(err))
	}

	return doc.model()
}
