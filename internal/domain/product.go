package domain

import (
	"time"
)

// Department is the top-level catalog grouping
type Department string

const (
	DepartmentMen   Department = "men"
	DepartmentWomen Department = "women"
	DepartmentKids  Department = "kids"
)

// ValidDepartment reports whether d is one of the fixed departments
func ValidDepartment(d Department) bool {
	switch d {
	case DepartmentMen, DepartmentWomen, DepartmentKids:
		return true
	}
	return false
}

// Product represents a sellable item. Catalog products carry ids like
// "men-shirts-1"; products added at runtime through the back-office get a
// timestamp-derived id. PriceCents is the canonical price representation:
// always the smallest currency unit, never a display-converted value.
type Product struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	PriceCents  int64      `json:"price_cents" db:"price_cents"`
	Department  Department `json:"category" db:"department"`
	Subcategory string     `json:"subcategory" db:"subcategory"`
	Sizes       []string   `json:"sizes" db:"sizes"`
	ImageURL    string     `json:"image" db:"image_url"`
	Stock       int        `json:"stock" db:"stock"`
	Featured    bool       `json:"featured,omitempty" db:"featured"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
