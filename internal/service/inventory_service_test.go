package service

import (
	"context"
	"errors"
	"testing"

	"glamour-boutique/internal/catalog"
	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/events"
	"glamour-boutique/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockInventoryRepository struct {
	products map[string]*domain.Product
	failAll  bool
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{
		products: make(map[string]*domain.Product),
	}
}

func (m *mockInventoryRepository) Upsert(ctx context.Context, product *domain.Product) error {
	if m.failAll {
		return errors.New("overlay unavailable")
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockInventoryRepository) Delete(ctx context.Context, id string) error {
	if m.failAll {
		return errors.New("overlay unavailable")
	}
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockInventoryRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.failAll {
		return nil, errors.New("overlay unavailable")
	}
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockInventoryRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if m.failAll {
		return nil, errors.New("overlay unavailable")
	}
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	return products, nil
}

func (m *mockInventoryRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	if m.failAll {
		return errors.New("overlay unavailable")
	}
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Stock += delta
	if product.Stock < 0 {
		product.Stock = 0
	}
	return nil
}

func newTestInventoryService(repo repository.InventoryRepository) InventoryService {
	return NewInventoryService(repo, events.NewNoopNotifier(), zap.NewNop())
}

// Feature: storefront, Property 2: overlay rows shadow catalog entries in
// the live view; catalog products without a row keep their definition
func TestProperty_OverlayShadowsCatalog(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("edited price and stock win over the catalog values", prop.ForAll(
		func(priceCents int64, stock int) bool {
			repo := newMockInventoryRepository()
			svc := newTestInventoryService(repo)
			ctx := context.Background()

			statics := catalog.Products()
			target := statics[0]

			if err := svc.SetPrice(ctx, target.ID, priceCents); err != nil {
				t.Logf("FAIL: SetPrice returned error: %v", err)
				return false
			}
			if err := svc.SetStock(ctx, target.ID, stock); err != nil {
				t.Logf("FAIL: SetStock returned error: %v", err)
				return false
			}

			live := svc.GetLiveProducts(ctx)
			if len(live) != len(statics) {
				t.Logf("FAIL: live view has %d products, catalog has %d", len(live), len(statics))
				return false
			}

			for _, p := range live {
				if p.ID != target.ID {
					continue
				}
				if p.PriceCents != priceCents || p.Stock != stock {
					t.Logf("FAIL: expected price=%d stock=%d, got price=%d stock=%d",
						priceCents, stock, p.PriceCents, p.Stock)
					return false
				}
				return true
			}

			t.Logf("FAIL: edited product %s missing from live view", target.ID)
			return false
		},
		gen.Int64Range(0, 10_000_000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGetLiveProductsIncludesOverlayOnlyProducts(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, domain.Product{
		Name:        "Silk Scarf",
		PriceCents:  450_00,
		Department:  domain.DepartmentWomen,
		Subcategory: "accessories",
		Stock:       5,
	})
	if err != nil {
		t.Fatalf("AddProduct returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id for a product created without one")
	}

	live := svc.GetLiveProducts(ctx)
	want := len(catalog.Products()) + 1
	if len(live) != want {
		t.Fatalf("expected %d live products, got %d", want, len(live))
	}

	found := false
	for _, p := range live {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("created product %s missing from live view", created.ID)
	}
}

func TestGetLiveProductsDegradesToCatalogOnRepositoryError(t *testing.T) {
	repo := newMockInventoryRepository()
	repo.failAll = true
	svc := newTestInventoryService(repo)

	live := svc.GetLiveProducts(context.Background())
	if len(live) != len(catalog.Products()) {
		t.Fatalf("expected the catalog view, got %d products", len(live))
	}
}

func TestGetProductsFilters(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	all := svc.GetProducts(ctx, "all", "")
	if len(all) != len(catalog.Products()) {
		t.Fatalf("expected the full live view for department=all, got %d", len(all))
	}

	men := svc.GetProducts(ctx, domain.DepartmentMen, "")
	if len(men) == 0 {
		t.Fatal("expected men's products in the catalog")
	}
	for _, p := range men {
		if p.Department != domain.DepartmentMen {
			t.Fatalf("department filter leaked product %s from %s", p.ID, p.Department)
		}
	}

	shirts := svc.GetProducts(ctx, domain.DepartmentMen, "Shirts")
	if len(shirts) == 0 {
		t.Fatal("expected a case-insensitive subcategory match")
	}
	for _, p := range shirts {
		if p.Subcategory != "shirts" {
			t.Fatalf("subcategory filter leaked product %s from %s", p.ID, p.Subcategory)
		}
	}
}

func TestGetLiveStockLimit(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	// No overlay row: the fallback wins
	if got := svc.GetLiveStockLimit(ctx, "men-shirts-1", 10); got != 10 {
		t.Fatalf("expected fallback 10, got %d", got)
	}

	if err := svc.SetStock(ctx, "men-shirts-1", 3); err != nil {
		t.Fatalf("SetStock returned error: %v", err)
	}

	// Overlay row present: the edited stock wins, whatever the fallback
	if got := svc.GetLiveStockLimit(ctx, "men-shirts-1", 10); got != 3 {
		t.Fatalf("expected overlay stock 3, got %d", got)
	}
}

func TestMutationValidation(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	if err := svc.SetPrice(ctx, "men-shirts-1", -1); err != ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if err := svc.SetStock(ctx, "men-shirts-1", -1); err != ErrInvalidStock {
		t.Fatalf("expected ErrInvalidStock, got %v", err)
	}
	if err := svc.SetPrice(ctx, "no-such-product", 100); err != repository.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.AddProduct(ctx, domain.Product{Name: "X", Department: "unisex"}); err != ErrInvalidDepartment {
		t.Fatalf("expected ErrInvalidDepartment, got %v", err)
	}
}

func TestRemoveProductRevertsToCatalog(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	original := catalog.FindByID("men-shirts-1")
	if original == nil {
		t.Fatal("expected men-shirts-1 in the catalog")
	}

	if err := svc.SetPrice(ctx, original.ID, 1); err != nil {
		t.Fatalf("SetPrice returned error: %v", err)
	}
	if err := svc.RemoveProduct(ctx, original.ID); err != nil {
		t.Fatalf("RemoveProduct returned error: %v", err)
	}

	product, err := svc.GetProductByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("catalog product should survive overlay removal: %v", err)
	}
	if product.PriceCents != original.PriceCents {
		t.Fatalf("expected the catalog price %d back, got %d", original.PriceCents, product.PriceCents)
	}
}

func TestRestoreStock(t *testing.T) {
	repo := newMockInventoryRepository()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	// No overlay row: restoration is skipped
	if svc.RestoreStock(ctx, "men-shirts-1", 2) {
		t.Fatal("expected restoration to be skipped without an overlay row")
	}

	if err := svc.SetStock(ctx, "men-shirts-1", 1); err != nil {
		t.Fatalf("SetStock returned error: %v", err)
	}
	if !svc.RestoreStock(ctx, "men-shirts-1", 2) {
		t.Fatal("expected restoration to succeed with an overlay row")
	}
	if got := svc.GetLiveStockLimit(ctx, "men-shirts-1", 0); got != 3 {
		t.Fatalf("expected stock 3 after restore, got %d", got)
	}

	if svc.RestoreStock(ctx, "men-shirts-1", 0) {
		t.Fatal("expected a non-positive quantity to be a no-op")
	}
}
