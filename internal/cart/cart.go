package cart

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
)

// Line pairs a product with the quantity held in the cart. A cart holds at
// most one line per product id.
type Line struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart accumulates order-in-progress lines for one session. It is not safe
// for concurrent use; a cart belongs to a single request at a time.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the quantity of the product's line, appending a new
// line when the product is not in the cart yet.
func (c *Cart) AddItem(p entity.Product, quantity int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})
}

// RemoveLine drops the line for productID, if any.
func (c *Cart) RemoveLine(productID int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID int) (Line, bool) {
	for _, l := range c.lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.lines = nil
}

// TotalValue is the sum of price times quantity over every line.
func (c *Cart) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// AverageValue is the total value divided by the number of units, rounded to
// cents. An empty cart averages zero.
func (c *Cart) AverageValue() decimal.Decimal {
	units := 0
	for _, l := range c.lines {
		units += l.Quantity
	}
	if units == 0 {
		return decimal.Zero
	}
	return c.TotalValue().Div(decimal.NewFromInt(int64(units))).Round(2)
}

func (c *Cart) clone() *Cart {
	return &Cart{lines: c.Lines()}
}
