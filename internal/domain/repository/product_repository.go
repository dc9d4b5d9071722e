package repository

import (
	"context"
	"errors"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("stock change must be positive")
)

// ProductRepository defines persistence behavior for the Product entity.
// Methods taking a context are the point and bulk lookups used on request
// paths; the others mirror the plain catalog calls.
type ProductRepository interface {
	GetAllProducts() ([]entity.Product, error)
	// GetProduct returns ErrProductNotFound when no product has the id.
	GetProduct(ctx context.Context, id int) (entity.Product, error)
	GetProducts(ctx context.Context) ([]entity.Product, error)
	SaveProduct(p entity.Product) (entity.Product, error)
	UpdateProduct(ctx context.Context, p entity.Product) (entity.Product, error)
	DeleteProduct(id int) error
	// UpdateProductStocks subtracts quantity from the stored stock. It fails
	// with ErrInsufficientStock rather than going below zero.
	UpdateProductStocks(id int, quantity int) error
}
