package order

import (
	"context"
	"sync"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
)

// InMemoryRepository keeps orders in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []entity.Order
	nextID  int
}

var _ repository.OrderRepository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) SaveOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return entity.Order{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	o.Lines = append([]entity.OrderLine(nil), o.Lines...)
	r.storage = append(r.storage, o)
	return o, nil
}

func (r *InMemoryRepository) ListOrders(ctx context.Context) ([]entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Order, len(r.storage))
	for i, o := range r.storage {
		o.Lines = append([]entity.OrderLine(nil), o.Lines...)
		out[i] = o
	}
	return out, nil
}
