package order

import (
	"errors"
	"strings"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/product"
)

// Shipping error keys, also used as localization keys.
const (
	KeyMissingName    = "ErrorMissingOrderName"
	KeyMissingAddress = "ErrorMissingAddress"
	KeyMissingCity    = "ErrorMissingCity"
	KeyMissingCountry = "ErrorMissingCountry"
	KeyCartEmpty      = "CartEmpty"
)

var ErrEmptyCart = errors.New("cart is empty")

// ValidationErrors lists the missing shipping fields of an order.
type ValidationErrors []product.FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Key)
	}
	return "invalid order: " + strings.Join(parts, ", ")
}

// ValidateShipping checks the fields an order needs to be delivered. Zip is
// optional.
func ValidateShipping(o entity.Order) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, product.FieldError{Field: "Name", Key: KeyMissingName})
	}
	if strings.TrimSpace(o.Address) == "" {
		errs = append(errs, product.FieldError{Field: "Address", Key: KeyMissingAddress})
	}
	if strings.TrimSpace(o.City) == "" {
		errs = append(errs, product.FieldError{Field: "City", Key: KeyMissingCity})
	}
	if strings.TrimSpace(o.Country) == "" {
		errs = append(errs, product.FieldError{Field: "Country", Key: KeyMissingCountry})
	}
	return errs
}
