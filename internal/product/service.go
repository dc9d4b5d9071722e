package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
	"github.com/wichananm65/store-catalog/internal/localization"
)

var (
	// ErrConversion is matched by every ConversionError.
	ErrConversion = errors.New("product conversion failed")
	errOutOfRange = errors.New("value out of range")
)

// ConversionError reports a view model field that could not be turned into
// its numeric entity form.
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// LineFailure is a cart line whose stock update failed.
type LineFailure struct {
	ProductID int
	Quantity  int
	Err       error
}

// StockUpdateError lists the cart lines UpdateProductQuantities could not
// apply. Lines not listed were applied and are not rolled back.
type StockUpdateError struct {
	Failed []LineFailure
}

func (e *StockUpdateError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("product %d (qty %d): %v", f.ProductID, f.Quantity, f.Err))
	}
	return "update product stocks: " + strings.Join(parts, "; ")
}

func (e *StockUpdateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// LocalizedError is a validation failure with its message in the request's
// culture.
type LocalizedError struct {
	Field   string `json:"field"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Resetter is implemented by repositories that can replace the whole catalog.
type Resetter interface {
	Reset(products []entity.Product) error
}

// Service translates between view models and persisted products and applies
// cart-driven stock changes. The cart and the repositories are owned by the
// caller.
type Service struct {
	cart      *cart.Cart
	products  repository.ProductRepository
	orders    repository.OrderRepository
	localizer localization.Localizer
}

func NewService(
	c *cart.Cart,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	localizer localization.Localizer,
) *Service {
	return &Service{cart: c, products: products, orders: orders, localizer: localizer}
}

// WithCart returns a copy of the service bound to c, typically the cart of
// the current session.
func (s *Service) WithCart(c *cart.Cart) *Service {
	cp := *s
	cp.cart = c
	return &cp
}

func (s *Service) Cart() *cart.Cart {
	return s.cart
}

func (s *Service) GetAllProducts() ([]entity.Product, error) {
	return s.products.GetAllProducts()
}

// GetProductByID scans the full catalog. It returns nil when no product has
// the id.
func (s *Service) GetProductByID(id int) (*entity.Product, error) {
	products, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// GetProduct looks the product up by id in the store. It returns nil when no
// product has the id.
func (s *Service) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetProducts(ctx context.Context) ([]entity.Product, error) {
	return s.products.GetProducts(ctx)
}

// GetProductByIDViewModel projects a product into its form shape using
// invariant number formatting.
func (s *Service) GetProductByIDViewModel(id int) (*ViewModel, error) {
	p, err := s.GetProductByID(id)
	if err != nil || p == nil {
		return nil, err
	}
	vm := ToViewModel(*p)
	return &vm, nil
}

// CheckProductModelErrors validates vm and returns the failures with their
// messages in culture.
func (s *Service) CheckProductModelErrors(vm ViewModel, culture localization.Culture) []LocalizedError {
	errs := Validate(vm, culture)
	out := make([]LocalizedError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, LocalizedError{
			Field:   fe.Field,
			Key:     fe.Key,
			Message: s.localizer.Localize(culture, fe.Key),
		})
	}
	return out
}

// SaveProduct converts vm and stores it as a new product. The store assigns
// the id.
func (s *Service) SaveProduct(vm ViewModel, culture localization.Culture) (entity.Product, error) {
	const op = "Service.SaveProduct"

	p, err := ToEntity(vm, culture)
	if err != nil {
		return entity.Product{}, err
	}
	p.ID = 0

	saved, err := s.products.SaveProduct(p)
	if err != nil {
		return entity.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("product saved", "op", op, "id", saved.ID)
	return saved, nil
}

// UpdateProduct replaces the editable fields of product id. It returns nil
// when no product has the id.
func (s *Service) UpdateProduct(ctx context.Context, id int, vm ViewModel, culture localization.Culture) (*entity.Product, error) {
	const op = "Service.UpdateProduct"

	p, err := ToEntity(vm, culture)
	if err != nil {
		return nil, err
	}
	p.ID = id

	updated, err := s.products.UpdateProduct(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &updated, nil
}

// DeleteProduct removes the product from the cart and from the store.
// Deleting an id that does not exist is not an error.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	const op = "Service.DeleteProduct"

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if p == nil {
		return nil
	}

	if s.cart != nil {
		s.cart.RemoveLine(id)
	}
	if err := s.products.DeleteProduct(id); err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("product deleted", "op", op, "id", id)
	return nil
}

// UpdateProductQuantities subtracts every cart line's quantity from the
// stored stock of its product. Each line is applied on its own; failures are
// collected into a *StockUpdateError. The cart is left untouched.
func (s *Service) UpdateProductQuantities() error {
	const op = "Service.UpdateProductQuantities"

	if s.cart == nil {
		return nil
	}

	var failed []LineFailure
	for _, l := range s.cart.Lines() {
		if err := s.products.UpdateProductStocks(l.Product.ID, l.Quantity); err != nil {
			slog.Warn("stock update failed", "op", op, "product", l.Product.ID, "quantity", l.Quantity, "err", err)
			failed = append(failed, LineFailure{ProductID: l.Product.ID, Quantity: l.Quantity, Err: err})
		}
	}
	if len(failed) > 0 {
		return &StockUpdateError{Failed: failed}
	}
	return nil
}

// ResetProducts replaces the catalog (dev / seeding only).
func (s *Service) ResetProducts(products []entity.Product) error {
	r, ok := s.products.(Resetter)
	if !ok {
		return errors.New("product repository does not support reset")
	}
	return r.Reset(products)
}

// ToEntity parses the numeric fields of vm. Malformed or negative values give
// a *ConversionError.
func ToEntity(vm ViewModel, culture localization.Culture) (entity.Product, error) {
	stockStr := strings.TrimSpace(vm.Stock)
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		return entity.Product{}, &ConversionError{Field: "Stock", Value: vm.Stock, Err: err}
	}
	if stock < 0 || stock > MaxStock {
		return entity.Product{}, &ConversionError{Field: "Stock", Value: vm.Stock, Err: errOutOfRange}
	}

	price, err := decimal.NewFromString(culture.NormalizeDecimal(strings.TrimSpace(vm.Price)))
	if err != nil {
		return entity.Product{}, &ConversionError{Field: "Price", Value: vm.Price, Err: err}
	}
	if price.IsNegative() || price.GreaterThan(MaxPrice) {
		return entity.Product{}, &ConversionError{Field: "Price", Value: vm.Price, Err: errOutOfRange}
	}

	return entity.Product{
		ID:          vm.ID,
		Name:        vm.Name,
		Description: vm.Description,
		Details:     vm.Details,
		Price:       price.Round(2),
		Quantity:    stock,
	}, nil
}

// ToViewModel formats p with a dot decimal separator whatever the culture.
func ToViewModel(p entity.Product) ViewModel {
	return ViewModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Details:     p.Details,
		Stock:       strconv.Itoa(p.Quantity),
		Price:       p.Price.String(),
	}
}
