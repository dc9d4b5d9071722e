package entity

import "github.com/shopspring/decimal"

// Product is a catalog item as it is persisted. ID is assigned by the store
// and never changes afterwards.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Details     string          `json:"details"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}
