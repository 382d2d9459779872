package transport

import (
	"net/http"

	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/middleware"
	"glamour-boutique/internal/repository"
	"glamour-boutique/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the back-office product creation payload
type CreateProductRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	PriceCents  int64    `json:"price_cents" validate:"min=0"`
	Department  string   `json:"category" validate:"required,oneof=men women kids"`
	Subcategory string   `json:"subcategory" validate:"required"`
	Sizes       []string `json:"sizes"`
	ImageURL    string   `json:"image"`
	Stock       int      `json:"stock" validate:"min=0"`
	Featured    bool     `json:"featured"`
}

// UpdatePriceRequest represents the price edit payload
type UpdatePriceRequest struct {
	PriceCents int64 `json:"price_cents" validate:"min=0"`
}

// UpdateStockRequest represents the stock edit payload
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

// UpdateOrderStatusRequest represents the fulfillment state change payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Processing Shipped Delivered"`
}

// AdminHandler handles the back-office inventory and order board routes
type AdminHandler struct {
	inventory service.InventoryService
	orders    service.OrderService
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(inventory service.InventoryService, orders service.OrderService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		inventory: inventory,
		orders:    orders,
		logger:    logger,
	}
}

// RegisterRoutes registers the back-office routes; every route requires an
// authenticated admin
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))

		r.Get("/inventory", h.ListInventory)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}/price", h.UpdatePrice)
		r.Put("/products/{id}/stock", h.UpdateStock)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/orders", h.ListOrders)
		r.Put("/orders/{code}/status", h.UpdateOrderStatus)
	})
}

// ListInventory returns the merged live product view for the back-office
func (h *AdminHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.inventory.GetLiveProducts(r.Context()))
}

// CreateProduct adds a product that lives only in the inventory overlay
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.inventory.AddProduct(r.Context(), domain.Product{
		ID:          req.ID,
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Department:  domain.Department(req.Department),
		Subcategory: req.Subcategory,
		Sizes:       req.Sizes,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Featured:    req.Featured,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdatePrice writes a new price into the overlay
func (h *AdminHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdatePriceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.inventory.SetPrice(r.Context(), id, req.PriceCents); err != nil {
		h.respondMutationError(w, id, "price", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "price updated"})
}

// UpdateStock writes a new stock level into the overlay
func (h *AdminHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.inventory.SetStock(r.Context(), id, req.Stock); err != nil {
		h.respondMutationError(w, id, "stock", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "stock updated"})
}

// DeleteProduct removes a product from the overlay. Catalog products
// revert to their built-in definition.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.inventory.RemoveProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product removed"})
}

// ListOrders returns every order for the fulfillment board
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order to a new fulfillment state
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), code, domain.OrderStatus(req.Status)); err != nil {
		if err == service.ErrInvalidOrderStatus {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
			return
		}
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to update order status", zap.String("order_code", code), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_code", code),
		zap.String("status", req.Status),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}

func (h *AdminHandler) respondMutationError(w http.ResponseWriter, id, field string, err error) {
	switch err {
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case service.ErrInvalidPrice, service.ErrInvalidStock:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Failed to update product",
			zap.String("product_id", id),
			zap.String("field", field),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
	}
}
