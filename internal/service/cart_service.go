package service

import (
	"context"
	"fmt"
	"time"

	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/repository"

	"go.uber.org/zap"
)

// DefaultCartRetention is how long a line may sit in a cart before the
// sweep removes it and returns its quantity to stock
const DefaultCartRetention = 7 * 24 * time.Hour

// CartService manages one cart per identity. Every mutation consults the
// live stock ceiling and clamps rather than rejects; a sold-out product is
// a silent no-op, mirrored to the caller through the returned cart.
type CartService interface {
	Get(ctx context.Context, identity string) (*domain.Cart, error)
	Add(ctx context.Context, identity, productID, size, color string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, identity, productID, size, color string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, identity, productID, size, color string) (*domain.Cart, error)
	Clear(ctx context.Context, identity string) error
}

type cartService struct {
	carts     repository.CartRepository
	inventory InventoryService
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewCartService creates a new instance of CartService. A non-positive
// retention falls back to the default week.
func NewCartService(carts repository.CartRepository, inventory InventoryService, retention time.Duration, logger *zap.Logger) CartService {
	if retention <= 0 {
		retention = DefaultCartRetention
	}
	return &cartService{
		carts:     carts,
		inventory: inventory,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the cart after running the expiry sweep
func (s *cartService) Get(ctx context.Context, identity string) (*domain.Cart, error) {
	lines, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{Lines: lines}, nil
}

// load reads the stored lines and sweeps out expired ones, returning each
// expired quantity to the overlay's stock (best-effort; skipped when the
// product no longer has an overlay row).
func (s *cartService) load(ctx context.Context, identity string) ([]domain.CartLine, error) {
	lines, err := s.carts.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	now := s.now()
	kept := lines[:0]
	swept := false
	for _, line := range lines {
		if line.Expired(now, s.retention) {
			swept = true
			if s.inventory.RestoreStock(ctx, line.Product.ID, line.Quantity) {
				s.logger.Info("Expired cart line returned to stock",
					zap.String("identity", repository.NormalizeIdentity(identity)),
					zap.String("product_id", line.Product.ID),
					zap.Int("quantity", line.Quantity),
				)
			}
			continue
		}
		kept = append(kept, line)
	}

	if swept {
		if err := s.carts.Save(ctx, identity, kept); err != nil {
			return nil, fmt.Errorf("failed to persist swept cart: %w", err)
		}
	}

	return kept, nil
}

// Add puts quantity units of a (product, size, color) combination in the
// cart. The quantity lands clamped to the live stock ceiling; a ceiling of
// zero or less leaves the cart untouched.
func (s *cartService) Add(ctx context.Context, identity, productID, size, color string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.inventory.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	lines, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	ceiling := s.inventory.GetLiveStockLimit(ctx, productID, product.Stock)
	if ceiling <= 0 {
		return &domain.Cart{Lines: lines}, nil
	}

	found := false
	for i := range lines {
		if lines[i].Matches(productID, size, color) {
			lines[i].Quantity = clamp(lines[i].Quantity+quantity, ceiling)
			found = true
			break
		}
	}

	if !found {
		lines = append(lines, domain.CartLine{
			Product:  *product,
			Size:     size,
			Color:    color,
			Quantity: clamp(quantity, ceiling),
			AddedAt:  s.now(),
		})
	}

	if err := s.carts.Save(ctx, identity, lines); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return &domain.Cart{Lines: lines}, nil
}

// UpdateQuantity replaces a line's quantity, clamped to the live ceiling.
// A quantity of zero or less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, identity, productID, size, color string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, identity, productID, size, color)
	}

	lines, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].Matches(productID, size, color) {
			ceiling := s.inventory.GetLiveStockLimit(ctx, productID, lines[i].Product.Stock)
			if ceiling > 0 {
				lines[i].Quantity = clamp(quantity, ceiling)
			}
			break
		}
	}

	if err := s.carts.Save(ctx, identity, lines); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return &domain.Cart{Lines: lines}, nil
}

// Remove deletes the matching line unconditionally
func (s *cartService) Remove(ctx context.Context, identity, productID, size, color string) (*domain.Cart, error) {
	lines, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if !line.Matches(productID, size, color) {
			kept = append(kept, line)
		}
	}

	if err := s.carts.Save(ctx, identity, kept); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return &domain.Cart{Lines: kept}, nil
}

// Clear empties the cart for an identity
func (s *cartService) Clear(ctx context.Context, identity string) error {
	return s.carts.Clear(ctx, identity)
}

func clamp(quantity, ceiling int) int {
	if quantity > ceiling {
		return ceiling
	}
	return quantity
}
