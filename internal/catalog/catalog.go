// Package catalog holds the immutable built-in product catalog. Runtime
// edits never touch this data; they live in the inventory overlay, which
// takes precedence for matching ids.
package catalog

import (
	"fmt"
	"strings"

	"glamour-boutique/internal/domain"
)

const defaultStock = 10

var (
	menSizes   = []string{"S", "M", "L", "XL", "XXL"}
	womenSizes = []string{"XS", "S", "M", "L", "XL"}
	kidsSizes  = []string{"2-3Y", "4-5Y", "6-7Y", "8-9Y", "10-11Y"}
)

// build creates count numbered products for one department/subcategory
// pair. Ids follow the "<department>-<subcategory>-<n>" convention the
// rest of the system keys on.
func build(dept domain.Department, subcategory, nameBase string, sizes []string, priceCents int64, count int) []domain.Product {
	products := make([]domain.Product, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("%s-%s-%d", dept, strings.ToLower(subcategory), i)
		products = append(products, domain.Product{
			ID:          id,
			Name:        fmt.Sprintf("%s #%d", nameBase, i),
			PriceCents:  priceCents,
			Department:  dept,
			Subcategory: subcategory,
			Sizes:       sizes,
			ImageURL:    fmt.Sprintf("/assets/img/%s/%s/%d.jpg", dept, strings.ToLower(subcategory), i),
			Stock:       defaultStock,
		})
	}
	return products
}

var staticProducts = func() []domain.Product {
	var all []domain.Product

	all = append(all, build(domain.DepartmentMen, "shirts", "Classic Oxford Shirt", menSizes, 250000, 5)...)
	all = append(all, build(domain.DepartmentMen, "trousers", "Tailored Chino", menSizes, 320000, 5)...)
	all = append(all, build(domain.DepartmentMen, "hoodies", "Heavyweight Hoodie", menSizes, 280000, 5)...)
	all = append(all, build(domain.DepartmentMen, "footwear", "Leather Derby", menSizes, 450000, 5)...)
	all = append(all, build(domain.DepartmentMen, "belts", "Woven Belt", menSizes, 90000, 5)...)

	all = append(all, build(domain.DepartmentWomen, "dresses", "Wrap Dress", womenSizes, 380000, 5)...)
	all = append(all, build(domain.DepartmentWomen, "tops", "Silk Blouse", womenSizes, 290000, 5)...)
	all = append(all, build(domain.DepartmentWomen, "footwear", "Block Heel Sandal", womenSizes, 410000, 5)...)
	all = append(all, build(domain.DepartmentWomen, "belts", "Slim Leather Belt", womenSizes, 85000, 5)...)
	all = append(all, build(domain.DepartmentWomen, "caps_hats", "Wide Brim Hat", womenSizes, 120000, 5)...)

	all = append(all, build(domain.DepartmentKids, "tshirts", "Graphic Tee", kidsSizes, 95000, 5)...)
	all = append(all, build(domain.DepartmentKids, "shorts", "Play Shorts", kidsSizes, 110000, 5)...)
	all = append(all, build(domain.DepartmentKids, "footwear", "Canvas Sneaker", kidsSizes, 180000, 5)...)

	return all
}()

// Products returns a copy of the full static catalog. Callers may mutate
// the returned slice freely.
func Products() []domain.Product {
	out := make([]domain.Product, len(staticProducts))
	copy(out, staticProducts)
	return out
}

// FindByID returns the static catalog entry for id, or nil
func FindByID(id string) *domain.Product {
	for i := range staticProducts {
		if staticProducts[i].ID == id {
			p := staticProducts[i]
			return &p
		}
	}
	return nil
}
