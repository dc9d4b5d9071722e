package repository

import (
	"context"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
)

// OrderRepository defines persistence behavior for orders.
type OrderRepository interface {
	SaveOrder(ctx context.Context, o entity.Order) (entity.Order, error)
	ListOrders(ctx context.Context) ([]entity.Order, error)
}
