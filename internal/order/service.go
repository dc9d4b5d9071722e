package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
	"github.com/wichananm65/store-catalog/internal/product"
)

// Service places orders from session carts.
type Service struct {
	repo     repository.OrderRepository
	products *product.Service
	now      func() time.Time
}

func NewService(r repository.OrderRepository, products *product.Service) *Service {
	return &Service{repo: r, products: products, now: time.Now}
}

// StockError names the cart lines the catalog could not cover at checkout.
type StockError struct {
	ProductIDs []int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for products %v", e.ProductIDs)
}

// Is makes a StockError match cart.ErrNotEnoughStock.
func (e *StockError) Is(target error) bool { return target == cart.ErrNotEnoughStock }

// Checkout saves an order for the lines of c, takes the ordered units out of
// stock and empties c. Nothing is saved when the cart is empty, the shipping
// details are incomplete or a line asks for more than is in stock.
//
// A stock update that fails after the order is saved does not undo the
// order: the saved order is returned together with the *product.StockUpdateError.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, o entity.Order) (entity.Order, error) {
	const op = "Service.Checkout"

	if c == nil || c.Len() == 0 {
		return entity.Order{}, ErrEmptyCart
	}
	if errs := ValidateShipping(o); len(errs) > 0 {
		return entity.Order{}, errs
	}

	lines := c.Lines()
	var short []int
	for _, l := range lines {
		p, err := s.products.GetProduct(ctx, l.Product.ID)
		if err != nil {
			return entity.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		if p == nil || p.Quantity < l.Quantity {
			short = append(short, l.Product.ID)
		}
	}
	if len(short) > 0 {
		return entity.Order{}, &StockError{ProductIDs: short}
	}

	o.ID = 0
	o.Date = s.now().UTC()
	o.Lines = make([]entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		o.Lines = append(o.Lines, entity.OrderLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	saved, err := s.repo.SaveOrder(ctx, o)
	if err != nil {
		return entity.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("order saved", "op", op, "id", saved.ID, "lines", len(saved.Lines))

	stockErr := s.products.WithCart(c).UpdateProductQuantities()
	c.Clear()

	if stockErr != nil {
		var sue *product.StockUpdateError
		if errors.As(stockErr, &sue) {
			slog.Warn("order saved with stock update failures", "op", op, "id", saved.ID, "failed", len(sue.Failed))
		}
		return saved, fmt.Errorf("%s: %w", op, stockErr)
	}
	return saved, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	const op = "Service.List"

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
