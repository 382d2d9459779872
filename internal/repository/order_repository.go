package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"glamour-boutique/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines data access for orders. Create is the single
// place in the system where stock is deducted: the order rows and the
// inventory decrements commit or roll back together.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order with its item snapshots and decrements overlay
// stock for each item, floored at 0, in one transaction. Items whose
// product has no overlay row skip the decrement; the order itself still
// records the snapshot.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO orders (id, code, customer_email, customer_name, phone, address, subtotal_cents, shipping_cents, total_cents, status, payment_method, placed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID,
		order.Code,
		order.CustomerEmail,
		order.CustomerName,
		order.Phone,
		order.Address,
		order.SubtotalCents,
		order.ShippingCents,
		order.TotalCents,
		order.Status,
		order.PaymentMethod,
		order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, price_cents, size, color, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(),
			order.ID,
			item.ProductID,
			item.Name,
			item.PriceCents,
			item.Size,
			item.Color,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		// Row-level lock on the inventory row serializes concurrent
		// checkouts for the same product.
		_, err = tx.ExecContext(
			ctx,
			`UPDATE inventory SET stock = GREATEST(0, stock - $2), updated_at = NOW() WHERE id = $1`,
			item.ProductID,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByCode retrieves one order with its items
func (r *orderRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := `
		SELECT id, code, customer_email, customer_name, phone, address, subtotal_cents, shipping_cents, total_cents, status, payment_method, placed_at
		FROM orders
		WHERE code = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&order.ID,
		&order.Code,
		&order.CustomerEmail,
		&order.CustomerName,
		&order.Phone,
		&order.Address,
		&order.SubtotalCents,
		&order.ShippingCents,
		&order.TotalCents,
		&order.Status,
		&order.PaymentMethod,
		&order.PlacedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByEmail retrieves one customer's orders, newest first
func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return r.list(ctx, `WHERE customer_email = $1`, email)
}

// ListAll retrieves every order across all customers, newest first. This
// is the back-office view.
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, "")
}

func (r *orderRepository) list(ctx context.Context, whereClause string, args ...interface{}) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT id, code, customer_email, customer_name, phone, address, subtotal_cents, shipping_cents, total_cents, status, payment_method, placed_at
		FROM orders
		%s
		ORDER BY placed_at DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Code,
			&order.CustomerEmail,
			&order.CustomerName,
			&order.Phone,
			&order.Address,
			&order.SubtotalCents,
			&order.ShippingCents,
			&order.TotalCents,
			&order.Status,
			&order.PaymentMethod,
			&order.PlacedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT product_id, name, price_cents, size, color, quantity
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.PriceCents,
			&item.Size,
			&item.Color,
			&item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	order.Items = items
	return nil
}

// UpdateStatus replaces the status of the matching order
func (r *orderRepository) UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE orders SET status = $2 WHERE code = $1`,
		code,
		status,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
