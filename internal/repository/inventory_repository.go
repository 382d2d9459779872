package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"glamour-boutique/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// InventoryRepository defines data access for the inventory overlay. A row
// here shadows the static catalog entry with the same id; products created
// through the back-office exist only here.
type InventoryRepository interface {
	Upsert(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) error
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Upsert writes a full product snapshot, inserting or replacing the row
// for that id
func (r *inventoryRepository) Upsert(ctx context.Context, product *domain.Product) error {
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return fmt.Errorf("failed to encode sizes: %w", err)
	}

	query := `
		INSERT INTO inventory (id, name, price_cents, department, subcategory, sizes, image_url, stock, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, price_cents = $3, department = $4, subcategory = $5,
		    sizes = $6, image_url = $7, stock = $8, featured = $9, updated_at = $11
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.PriceCents,
		product.Department,
		product.Subcategory,
		sizes,
		product.ImageURL,
		product.Stock,
		product.Featured,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert inventory row: %w", err)
	}

	return nil
}

// Delete removes a product from the overlay. Catalog products revert to
// their static definition afterwards; the catalog itself is never touched.
func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory row: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves one overlay row
func (r *inventoryRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, price_cents, department, subcategory, sizes, image_url, stock, featured, created_at, updated_at
		FROM inventory
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find inventory row: %w", err)
	}

	return product, nil
}

// List retrieves the entire overlay
func (r *inventoryRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price_cents, department, subcategory, sizes, image_url, stock, featured, created_at, updated_at
		FROM inventory
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return products, nil
}

// AdjustStock applies delta to the stored stock, floored at 0, as a single
// atomic row update. Concurrent adjustments serialize on the row lock, so
// no update is lost.
func (r *inventoryRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE inventory
		SET stock = GREATEST(0, stock + $2), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// rowScanner lets scanProduct work with both QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var sizes []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.PriceCents,
		&product.Department,
		&product.Subcategory,
		&sizes,
		&product.ImageURL,
		&product.Stock,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
		return nil, fmt.Errorf("failed to decode sizes: %w", err)
	}

	return product, nil
}
