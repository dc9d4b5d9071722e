package product

import (
	"context"
	"sync"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
)

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []entity.Product
	nextID  int
}

var (
	_ repository.ProductRepository = (*InMemoryRepository)(nil)
	_ Resetter                     = (*InMemoryRepository)(nil)
)

func NewInMemoryRepository(seed []entity.Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]entity.Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) GetAllProducts() ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Product, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) GetProduct(ctx context.Context, id int) (entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return entity.Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Product{}, repository.ErrProductNotFound
}

func (r *InMemoryRepository) GetProducts(ctx context.Context) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.GetAllProducts()
}

func (r *InMemoryRepository) SaveProduct(p entity.Product) (entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) UpdateProduct(ctx context.Context, p entity.Product) (entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return entity.Product{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == p.ID {
			r.storage[i] = p
			return p, nil
		}
	}
	return entity.Product{}, repository.ErrProductNotFound
}

func (r *InMemoryRepository) DeleteProduct(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (r *InMemoryRepository) UpdateProductStocks(id int, quantity int) error {
	if quantity <= 0 {
		return repository.ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			if r.storage[i].Quantity < quantity {
				return repository.ErrInsufficientStock
			}
			r.storage[i].Quantity -= quantity
			return nil
		}
	}
	return repository.ErrProductNotFound
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(products []entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]entity.Product, 0, len(products))
	maxID := 0
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if maxID >= r.nextID {
		r.nextID = maxID + 1
	}
	return nil
}
