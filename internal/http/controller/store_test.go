package controller_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
)

// memoryStore implements the repositories the controllers need.
type memoryStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	orders   map[uuid.UUID]model.Order
	messages []model.Message
	events   []*model.Event
	failList error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: map[uuid.UUID]model.Product{},
		orders:   map[uuid.UUID]model.Order{},
	}
}

type productRepo struct{ *memoryStore }

func (r productRepo) Create(_ context.Context, p *model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return p, nil
}

func (r productRepo) List(context.Context) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return nil, r.failList
	}
	out := make([]*model.Product, 0, len(r.products))
	for _, p := range r.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r productRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r productRepo) Update(_ context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&p)
	r.products[id] = p
	return &p, nil
}

func (r productRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r productRepo) AppendReview(_ context.Context, id uuid.UUID, review *model.Review) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Reviews = append(p.Reviews, *review)
	r.products[id] = p
	return review, nil
}

type orderRepo struct{ *memoryStore }

func (r orderRepo) Create(_ context.Context, o *model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return o, nil
}

func (r orderRepo) List(context.Context) ([]*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r orderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r orderRepo) Update(_ context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&o)
	r.orders[id] = o
	return &o, nil
}

func (r orderRepo) UpdateOrderWithEvent(ctx context.Context, id uuid.UUID, patch model.OrderPatch, event *model.Event) (*model.Order, error) {
	order, err := r.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event.InitMeta()
	r.events = append(r.events, event)
	return order, nil
}

type messageRepo struct{ *memoryStore }

func (r messageRepo) Create(_ context.Context, m *model.Message) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return m, nil
}

func (r messageRepo) List(context.Context) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Message, 0, len(r.messages))
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		out = append(out, &m)
	}
	return out, nil
}

var errStoreDown = errors.New("connection refused")
