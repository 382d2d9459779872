package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// ValidOrderStatus reports whether s is a known fulfillment state
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem is an immutable snapshot of one purchased line. It copies the
// product fields that matter for the receipt so later catalog or price
// edits cannot rewrite history.
type OrderItem struct {
	ProductID  string `json:"product_id" db:"product_id"`
	Name       string `json:"name" db:"name"`
	PriceCents int64  `json:"price_cents" db:"price_cents"`
	Size       string `json:"size" db:"size"`
	Color      string `json:"color" db:"color"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

// Order is immutable once created except for its status. Code is the short
// human-facing identifier ("ORD-1234"); ID is the row identity.
type Order struct {
	ID            uuid.UUID   `json:"-" db:"id"`
	Code          string      `json:"id" db:"code"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	Phone         string      `json:"phone" db:"phone"`
	Address       string      `json:"address" db:"address"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents" db:"subtotal_cents"`
	ShippingCents int64       `json:"shipping_cents" db:"shipping_cents"`
	TotalCents    int64       `json:"total_cents" db:"total_cents"`
	Status        OrderStatus `json:"status" db:"status"`
	PaymentMethod string      `json:"payment_method" db:"payment_method"`
	PlacedAt      time.Time   `json:"date" db:"placed_at"`
}
