package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, both over HTTP and inside JSONB columns.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog item together with its embedded reviews.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Recipe      string
	Discount    float64
	Reviews     []Review
	UpdatedAt   time.Time
	CreatedAt   time.Time
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
}

// Review is a customer review embedded in a product. Reviews are append-only.
type Review struct {
	ID      uuid.UUID `json:"id"`
	Author  string    `json:"author"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// InitMeta assigns the review identifier and submission time.
func (r *Review) InitMeta() {
	r.ID = uuid.New()
	r.Date = time.Now().UTC()
}

// ProductPatch lists the product fields a client may change. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Discount    *float64
	Recipe      *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Image == nil && p.Discount == nil && p.Recipe == nil
}

// Apply copies the set fields of the patch onto the product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Discount != nil {
		product.Discount = *p.Discount
	}
	if p.Recipe != nil {
		product.Recipe = *p.Recipe
	}
}
