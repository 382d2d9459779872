package transport

import (
	"net/http"

	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/middleware"
	"glamour-boutique/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the merged product view (static catalog plus
// inventory overlay)
type CatalogHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(inventory service.InventoryService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
}

// List returns live products, optionally filtered by department and
// subcategory query parameters
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	department := domain.Department(r.URL.Query().Get("department"))
	subcategory := r.URL.Query().Get("subcategory")

	if department != "" && department != "all" && !domain.ValidDepartment(department) {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown department")
		return
	}

	products := h.inventory.GetProducts(r.Context(), department, subcategory)
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns one product from the live view
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.inventory.GetProductByID(r.Context(), id)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}
