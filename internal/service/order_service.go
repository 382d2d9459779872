package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/events"
	"glamour-boutique/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart          = errors.New("cannot place an order with no items")
	ErrInvalidOrderStatus = errors.New("unknown order status")
)

// CheckoutInput carries everything the storefront collects before placing
// an order. When BuyNow is set the stored cart is bypassed and preserved.
type CheckoutInput struct {
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	PaymentMethod string
	BuyNow        *domain.CartLine
}

// OrderService turns carts into immutable orders and serves order history.
// Stock deduction happens exactly once, inside the order repository's
// transaction; nothing here touches stock directly.
type OrderService interface {
	Checkout(ctx context.Context, identity string, input CheckoutInput) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error
}

type orderService struct {
	orders            repository.OrderRepository
	carts             CartService
	notifier          events.Notifier
	shippingFee       int64
	freeShippingAbove int64
	logger            *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	carts CartService,
	notifier events.Notifier,
	shippingFeeCents int64,
	freeShippingThresholdCents int64,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:            orders,
		carts:             carts,
		notifier:          notifier,
		shippingFee:       shippingFeeCents,
		freeShippingAbove: freeShippingThresholdCents,
		logger:            logger,
	}
}

// Checkout snapshots the cart (or the single buy-now line) into an order,
// applies the shipping rule, persists it with the stock decrement, and
// clears the cart unless this was a buy-now purchase
func (s *orderService) Checkout(ctx context.Context, identity string, input CheckoutInput) (*domain.Order, error) {
	var lines []domain.CartLine
	if input.BuyNow != nil {
		lines = []domain.CartLine{*input.BuyNow}
	} else {
		cart, err := s.carts.Get(ctx, identity)
		if err != nil {
			return nil, err
		}
		lines = cart.Lines
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var subtotal int64
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID:  line.Product.ID,
			Name:       line.Product.Name,
			PriceCents: line.Product.PriceCents,
			Size:       line.Size,
			Color:      line.Color,
			Quantity:   line.Quantity,
		})
		subtotal += line.Product.PriceCents * int64(line.Quantity)
	}

	shipping := s.shippingFee
	if subtotal >= s.freeShippingAbove {
		shipping = 0
	}

	order := &domain.Order{
		ID:            uuid.New(),
		Code:          newOrderCode(),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		Address:       input.Address,
		Items:         items,
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TotalCents:    subtotal + shipping,
		Status:        domain.OrderStatusProcessing,
		PaymentMethod: input.PaymentMethod,
		PlacedAt:      time.Now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if input.BuyNow == nil {
		if err := s.carts.Clear(ctx, identity); err != nil {
			// The order is already committed; an uncleared cart is an
			// annoyance, not a correctness problem.
			s.logger.Warn("Failed to clear cart after checkout",
				zap.String("order_code", order.Code),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Order placed",
		zap.String("order_code", order.Code),
		zap.String("customer_email", order.CustomerEmail),
		zap.Int64("total_cents", order.TotalCents),
	)

	s.notifier.InventoryChanged(ctx)
	s.notifier.OrdersChanged(ctx)

	return order, nil
}

// ListByEmail returns one customer's orders, newest first
func (s *orderService) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return s.orders.ListByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ListAll returns the back-office view of every order
func (s *orderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus moves an order to a new fulfillment state. Only the known
// states are accepted; arbitrary strings are rejected.
func (s *orderService) UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}

	if err := s.orders.UpdateStatus(ctx, code, status); err != nil {
		return err
	}

	s.notifier.OrdersChanged(ctx)
	return nil
}

// newOrderCode generates the short human-facing order identifier
func newOrderCode() string {
	return fmt.Sprintf("ORD-%04d", rand.Intn(9000)+1000)
}
