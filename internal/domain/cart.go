package domain

import (
	"time"
)

// CartLine is one distinct (product, size, color) combination in a cart.
// Two lines for the same product with different sizes or colors are
// independent.
type CartLine struct {
	Product  Product   `json:"product"`
	Size     string    `json:"size"`
	Color    string    `json:"color"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Matches reports whether the line is identified by the given key triple
func (l *CartLine) Matches(productID, size, color string) bool {
	return l.Product.ID == productID && l.Size == size && l.Color == color
}

// Expired reports whether the line is older than the retention window
func (l *CartLine) Expired(now time.Time, retention time.Duration) bool {
	return now.Sub(l.AddedAt) > retention
}

// Cart is the materialized view of one identity's cart. Totals are derived
// from the lines on every read, never stored.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// TotalItems is the sum of all line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPriceCents is the sum of price x quantity across all lines
func (c *Cart) TotalPriceCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Product.PriceCents * int64(l.Quantity)
	}
	return total
}
