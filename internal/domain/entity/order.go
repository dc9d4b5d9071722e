package entity

import "time"

// Order is a placed order with its shipping details.
type Order struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Address string      `json:"address"`
	City    string      `json:"city"`
	Zip     string      `json:"zip"`
	Country string      `json:"country"`
	Date    time.Time   `json:"date"`
	Lines   []OrderLine `json:"lines"`
}

// OrderLine records how many units of a product an order took.
type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}
