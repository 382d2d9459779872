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

// CartLineRequest identifies one cart line and, for add/update, the
// desired quantity
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// CartResponse is the materialized cart with its derived totals
type CartResponse struct {
	Lines           []domain.CartLine `json:"lines"`
	TotalItems      int               `json:"total_items"`
	TotalPriceCents int64             `json:"total_price_cents"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	return CartResponse{
		Lines:           cart.Lines,
		TotalItems:      cart.TotalItems(),
		TotalPriceCents: cart.TotalPriceCents(),
	}
}

// CartHandler handles HTTP requests for cart operations. Anonymous
// requests operate on the shared guest cart.
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// RegisterRoutes registers cart routes; optionalAuth resolves the
// identity when a token is present
func (h *CartHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items", h.UpdateItem)
		r.Delete("/items", h.RemoveItem)
	})
}

// cartIdentity resolves which cart a request addresses
func cartIdentity(r *http.Request) string {
	if email, ok := middleware.GetUserEmail(r.Context()); ok {
		return email
	}
	return repository.GuestIdentity
}

// Get returns the cart after the expiry sweep
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), cartIdentity(r))
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// AddItem adds quantity units of a line, clamped to the live stock
// ceiling. Sold-out products leave the cart unchanged.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CartLineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.Add(r.Context(), cartIdentity(r), req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// UpdateItem replaces a line's quantity; zero or less removes the line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req CartLineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), cartIdentity(r), req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.logger.Error("Failed to update cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem deletes the matching line unconditionally
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req CartLineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.Remove(r.Context(), cartIdentity(r), req.ProductID, req.Size, req.Color)
	if err != nil {
		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), cartIdentity(r)); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
