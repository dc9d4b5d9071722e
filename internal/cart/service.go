package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
)

var (
	ErrInvalidSession  = errors.New("invalid cart session")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrProductNotFound = errors.New("product not found")
	ErrNotEnoughStock  = errors.New("not enough stock")
)

// ProductFinder looks a product up by id, returning nil when it is absent.
type ProductFinder interface {
	GetProduct(ctx context.Context, id int) (*entity.Product, error)
}

// Service orchestrates session cart operations.
type Service struct {
	store    Store
	products ProductFinder
}

func NewService(store Store, products ProductFinder) *Service {
	return &Service{store: store, products: products}
}

// GetCart loads the session cart. Lines whose product has since been
// deleted are dropped and the trimmed cart is stored back.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return s.load(ctx, sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	dropped := 0
	for _, l := range c.Lines() {
		p, err := s.products.GetProduct(ctx, l.Product.ID)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if p == nil {
			c.RemoveLine(l.Product.ID)
			dropped++
		}
	}
	if dropped > 0 {
		slog.Debug("cart lines dropped", "op", "Service.load", "session", sessionID, "dropped", dropped)
		if err := s.SaveCart(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddToCart adds quantity units of a product to the session cart. The
// resulting line may not exceed the product's current stock.
func (s *Service) AddToCart(ctx context.Context, sessionID string, productID, quantity int) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	inCart := 0
	if l, ok := c.Line(productID); ok {
		inCart = l.Quantity
	}
	// compared without adding so a huge quantity cannot wrap around
	if quantity > p.Quantity-inCart {
		return nil, ErrNotEnoughStock
	}

	c.AddItem(*p, quantity)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID int) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.RemoveLine(productID)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveCart stores c as the session's cart, used after a cart has been
// changed elsewhere (checkout, product removal).
func (s *Service) SaveCart(ctx context.Context, sessionID string, c *Cart) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	if c.Len() == 0 {
		return s.store.Delete(ctx, sessionID)
	}
	return s.store.Save(ctx, sessionID, c)
}

// ClearCart empties the session's cart.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	return s.store.Delete(ctx, sessionID)
}
