package product

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/store-catalog/internal/localization"
)

// Error keys reported by Validate. They double as localization keys.
const (
	KeyMissingName             = "ErrorMissingName"
	KeyMissingStock            = "ErrorMissingStock"
	KeyStockNotAnInteger       = "StockNotAnInteger"
	KeyStockNotGreaterThanZero = "StockNotGreaterThanZero"
	KeyMissingPrice            = "ErrorMissingPrice"
	KeyPriceNotANumber         = "PriceNotANumber"
	KeyPriceNotGreaterThanZero = "PriceNotGreaterThanZero"
)

// MaxStock and MaxPrice are the largest values the products table holds.
const MaxStock = math.MaxInt32

var MaxPrice = decimal.RequireFromString("99999999.99")

var (
	stockPattern = regexp.MustCompile(`^\d+$`)
	pricePattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// ViewModel is the form shape of a product. Stock and Price stay strings
// because that is what an HTML form submits. ID is output only.
type ViewModel struct {
	ID          int    `json:"id" form:"-"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Details     string `json:"details" form:"details"`
	Stock       string `json:"stock" form:"stock"`
	Price       string `json:"price" form:"price"`
}

// FieldError is one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// ValidationErrors lists every rule a view model broke.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Key)
	}
	return "invalid product: " + strings.Join(parts, ", ")
}

// Has reports whether field failed with key.
func (v ValidationErrors) Has(field, key string) bool {
	for _, fe := range v {
		if fe.Field == field && fe.Key == key {
			return true
		}
	}
	return false
}

// HasField reports whether field failed any rule.
func (v ValidationErrors) HasField(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate runs every rule against vm and returns all violations, or nil.
//
// Price is read in the given culture: a comma-decimal culture has its single
// comma rewritten to a dot before the format rule, which itself only accepts
// a dot. Range rules are only checked for values that parse as numbers.
func Validate(vm ViewModel, culture localization.Culture) ValidationErrors {
	var errs ValidationErrors
	add := func(field, key string) {
		errs = append(errs, FieldError{Field: field, Key: key})
	}

	if strings.TrimSpace(vm.Name) == "" {
		add("Name", KeyMissingName)
	}

	stock := strings.TrimSpace(vm.Stock)
	if stock == "" {
		add("Stock", KeyMissingStock)
	} else {
		if !stockPattern.MatchString(stock) {
			add("Stock", KeyStockNotAnInteger)
		}
		if n, err := strconv.ParseInt(stock, 10, 64); err == nil && (n < 1 || n > MaxStock) {
			add("Stock", KeyStockNotGreaterThanZero)
		} else if err != nil && stockPattern.MatchString(stock) {
			// all digits but wider than int64
			add("Stock", KeyStockNotGreaterThanZero)
		}
	}

	price := culture.NormalizeDecimal(strings.TrimSpace(vm.Price))
	if price == "" {
		add("Price", KeyMissingPrice)
	} else {
		if !pricePattern.MatchString(price) {
			add("Price", KeyPriceNotANumber)
		}
		if d, err := decimal.NewFromString(price); err == nil && (!d.IsPositive() || d.GreaterThan(MaxPrice)) {
			add("Price", KeyPriceNotGreaterThanZero)
		}
	}

	return errs
}
