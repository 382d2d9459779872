package repository

import (
	"context"
	"testing"
	"time"

	"glamour-boutique/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Feature: storefront, Property 1: an overlay upsert round-trips every
// attribute, including the JSON-encoded size list
func TestProperty_InventoryUpsertPreservesAttributes(t *testing.T) {
	repo := NewInventoryRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("upserting and retrieving a product preserves all attributes", prop.ForAll(
		func(id string, name string, priceCents int64, subcategory string, stock int, featured bool) bool {
			ctx := context.Background()

			// Clean up before each test
			_, _ = testDB.Exec("DELETE FROM inventory WHERE id = $1", id)

			product := &domain.Product{
				ID:          id,
				Name:        name,
				PriceCents:  priceCents,
				Department:  domain.DepartmentWomen,
				Subcategory: subcategory,
				Sizes:       []string{"S", "M", "L"},
				ImageURL:    "http://example.com/image.jpg",
				Stock:       stock,
				Featured:    featured,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}

			if err := repo.Upsert(ctx, product); err != nil {
				t.Logf("FAIL: Failed to upsert product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, id)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", name, retrieved.Name)
				return false
			}
			if retrieved.PriceCents != priceCents {
				t.Logf("FAIL: PriceCents mismatch. Expected %d, got %d", priceCents, retrieved.PriceCents)
				return false
			}
			if retrieved.Department != domain.DepartmentWomen {
				t.Logf("FAIL: Department mismatch. Got %s", retrieved.Department)
				return false
			}
			if retrieved.Subcategory != subcategory {
				t.Logf("FAIL: Subcategory mismatch. Expected %s, got %s", subcategory, retrieved.Subcategory)
				return false
			}
			if len(retrieved.Sizes) != 3 || retrieved.Sizes[0] != "S" || retrieved.Sizes[2] != "L" {
				t.Logf("FAIL: Sizes mismatch. Got %v", retrieved.Sizes)
				return false
			}
			if retrieved.Stock != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", stock, retrieved.Stock)
				return false
			}
			if retrieved.Featured != featured {
				t.Logf("FAIL: Featured mismatch. Expected %v, got %v", featured, retrieved.Featured)
				return false
			}

			// Cleanup
			_ = repo.Delete(ctx, id)

			return true
		},
		gen.RegexMatch(`inv-[a-z0-9]{8,16}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.Int64Range(0, 100_000_000),
		gen.RegexMatch(`[a-z_]{3,20}`),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 9: stock adjustments never take a row below
// zero
func TestProperty_AdjustStockFloorsAtZero(t *testing.T) {
	repo := NewInventoryRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("any sequence of adjustments leaves stock non-negative", prop.ForAll(
		func(initial int, deltas []int) bool {
			ctx := context.Background()
			id := "inv-adjust-target"

			_, _ = testDB.Exec("DELETE FROM inventory WHERE id = $1", id)

			product := &domain.Product{
				ID:          id,
				Name:        "Adjust Target",
				PriceCents:  100,
				Department:  domain.DepartmentMen,
				Subcategory: "shirts",
				Sizes:       []string{},
				Stock:       initial,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := repo.Upsert(ctx, product); err != nil {
				t.Logf("FAIL: Failed to upsert product: %v", err)
				return false
			}

			want := initial
			for _, delta := range deltas {
				if err := repo.AdjustStock(ctx, id, delta); err != nil {
					t.Logf("FAIL: AdjustStock(%d) returned error: %v", delta, err)
					return false
				}
				want += delta
				if want < 0 {
					want = 0
				}
			}

			retrieved, err := repo.FindByID(ctx, id)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}
			if retrieved.Stock < 0 {
				t.Logf("FAIL: Stock went negative: %d", retrieved.Stock)
				return false
			}
			if retrieved.Stock != want {
				t.Logf("FAIL: Expected stock %d, got %d", want, retrieved.Stock)
				return false
			}

			_ = repo.Delete(ctx, id)

			return true
		},
		gen.IntRange(0, 50),
		gen.SliceOf(gen.IntRange(-30, 30)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestInventoryFindByIDNotFound(t *testing.T) {
	repo := NewInventoryRepository(testDB)

	if _, err := repo.FindByID(context.Background(), "no-such-row"); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.AdjustStock(context.Background(), "no-such-row", 1); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound from AdjustStock, got %v", err)
	}
	if err := repo.Delete(context.Background(), "no-such-row"); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound from Delete, got %v", err)
	}
}

func TestInventoryUpsertReplacesExistingRow(t *testing.T) {
	repo := NewInventoryRepository(testDB)
	ctx := context.Background()
	id := "inv-upsert-twice"

	_, _ = testDB.Exec("DELETE FROM inventory WHERE id = $1", id)

	first := &domain.Product{
		ID:          id,
		Name:        "First",
		PriceCents:  100,
		Department:  domain.DepartmentKids,
		Subcategory: "tshirts",
		Sizes:       []string{"2-3Y"},
		Stock:       5,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	second := *first
	second.Name = "Second"
	second.PriceCents = 999
	second.Stock = 1
	if err := repo.Upsert(ctx, &second); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if retrieved.Name != "Second" || retrieved.PriceCents != 999 || retrieved.Stock != 1 {
		t.Fatalf("expected the replaced row, got %+v", retrieved)
	}

	_ = repo.Delete(ctx, id)
}
