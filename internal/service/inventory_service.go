package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glamour-boutique/internal/catalog"
	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/events"
	"glamour-boutique/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidPrice      = errors.New("price must be non-negative")
	ErrInvalidStock      = errors.New("stock must be non-negative")
	ErrInvalidDepartment = errors.New("unknown department")
)

// InventoryService produces the single authoritative view of what
// products exist and how many are in stock, by overlaying back-office
// edits onto the static catalog. An overlay row with a matching id wins in
// full; catalog products without one keep their built-in definition;
// products created through the back-office exist only in the overlay.
type InventoryService interface {
	GetLiveProducts(ctx context.Context) []domain.Product
	GetProducts(ctx context.Context, department domain.Department, subcategory string) []domain.Product
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetLiveStockLimit(ctx context.Context, id string, fallback int) int

	SetPrice(ctx context.Context, id string, priceCents int64) error
	SetStock(ctx context.Context, id string, stock int) error
	AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	RemoveProduct(ctx context.Context, id string) error
	RestoreStock(ctx context.Context, id string, quantity int) bool
}

type inventoryService struct {
	repo     repository.InventoryRepository
	notifier events.Notifier
	logger   *zap.Logger
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(repo repository.InventoryRepository, notifier events.Notifier, logger *zap.Logger) InventoryService {
	return &inventoryService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// GetLiveProducts merges the static catalog with the overlay. An
// unreadable overlay degrades to the catalog view; the read path never
// fails outward.
func (s *inventoryService) GetLiveProducts(ctx context.Context) []domain.Product {
	statics := catalog.Products()

	overlay, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("Inventory overlay unavailable, serving catalog only", zap.Error(err))
		return statics
	}

	byID := make(map[string]*domain.Product, len(overlay))
	for _, p := range overlay {
		byID[p.ID] = p
	}

	live := make([]domain.Product, 0, len(statics)+len(overlay))
	seen := make(map[string]bool, len(statics))
	for _, p := range statics {
		seen[p.ID] = true
		if o, ok := byID[p.ID]; ok {
			live = append(live, *o)
		} else {
			live = append(live, p)
		}
	}

	// Back-office additions without a catalog counterpart
	for _, p := range overlay {
		if !seen[p.ID] {
			live = append(live, *p)
		}
	}

	return live
}

// GetProducts filters the live view by department and subcategory. Either
// filter may be empty or "all".
func (s *inventoryService) GetProducts(ctx context.Context, department domain.Department, subcategory string) []domain.Product {
	sub := strings.ToLower(strings.TrimSpace(subcategory))
	all := department == "" || department == "all"
	subAll := sub == "" || sub == "all"

	filtered := []domain.Product{}
	for _, p := range s.GetLiveProducts(ctx) {
		if !all && p.Department != department {
			continue
		}
		if !subAll && strings.ToLower(p.Subcategory) != sub {
			continue
		}
		filtered = append(filtered, p)
	}

	return filtered
}

// GetProductByID resolves one product from the live view
func (s *inventoryService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	overlay, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return overlay, nil
	}
	if err != repository.ErrProductNotFound {
		s.logger.Warn("Inventory overlay unavailable, falling back to catalog", zap.Error(err))
	}

	if p := catalog.FindByID(id); p != nil {
		return p, nil
	}

	return nil, repository.ErrProductNotFound
}

// GetLiveStockLimit returns the authoritative purchase ceiling for a
// product: the overlay's stock when a row exists, else the fallback.
func (s *inventoryService) GetLiveStockLimit(ctx context.Context, id string, fallback int) int {
	overlay, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fallback
	}
	return overlay.Stock
}

// SetPrice writes a new price for a product into the overlay, seeding the
// snapshot from the live view when the product has no overlay row yet
func (s *inventoryService) SetPrice(ctx context.Context, id string, priceCents int64) error {
	if priceCents < 0 {
		return ErrInvalidPrice
	}

	return s.mutate(ctx, id, func(p *domain.Product) {
		p.PriceCents = priceCents
	})
}

// SetStock writes a new stock level for a product into the overlay
func (s *inventoryService) SetStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}

	return s.mutate(ctx, id, func(p *domain.Product) {
		p.Stock = stock
	})
}

func (s *inventoryService) mutate(ctx context.Context, id string, apply func(*domain.Product)) error {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	apply(product)
	product.UpdatedAt = time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = product.UpdatedAt
	}

	if err := s.repo.Upsert(ctx, product); err != nil {
		return err
	}

	s.notifier.InventoryChanged(ctx)
	return nil
}

// AddProduct creates a product that exists only in the overlay. An empty
// id gets a timestamp-derived one.
func (s *inventoryService) AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if product.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if !domain.ValidDepartment(product.Department) {
		return nil, ErrInvalidDepartment
	}

	if product.ID == "" {
		product.ID = fmt.Sprintf("custom-%d", time.Now().UnixMilli())
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Upsert(ctx, &product); err != nil {
		return nil, err
	}

	s.notifier.InventoryChanged(ctx)
	return &product, nil
}

// RemoveProduct drops a product from the overlay. A catalog product
// reverts to its static definition; the catalog entry itself is never
// deleted.
func (s *inventoryService) RemoveProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.InventoryChanged(ctx)
	return nil
}

// RestoreStock returns quantity units to a product's overlay stock,
// best-effort: when the product has no overlay row the restoration is
// skipped and false is returned.
func (s *inventoryService) RestoreStock(ctx context.Context, id string, quantity int) bool {
	if quantity <= 0 {
		return false
	}

	err := s.repo.AdjustStock(ctx, id, quantity)
	if err != nil {
		if err != repository.ErrProductNotFound {
			s.logger.Warn("Failed to restore stock",
				zap.String("product_id", id),
				zap.Int("quantity", quantity),
				zap.Error(err),
			)
		}
		return false
	}

	s.notifier.InventoryChanged(ctx)
	return true
}
