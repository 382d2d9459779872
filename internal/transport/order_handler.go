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

// CheckoutRequest represents the checkout payload. BuyNow, when present,
// bypasses the stored cart and orders that single line.
type CheckoutRequest struct {
	CustomerName  string           `json:"customer_name" validate:"required"`
	CustomerEmail string           `json:"customer_email" validate:"required,email"`
	Phone         string           `json:"phone" validate:"required"`
	Address       string           `json:"address" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	BuyNow        *CartLineRequest `json:"buy_now,omitempty"`
}

// OrderHandler handles HTTP requests for checkout and order history
type OrderHandler struct {
	orders    service.OrderService
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, inventory service.InventoryService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers checkout and order history routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, optionalAuth, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Post("/api/checkout", h.Checkout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/orders", h.ListMine)
	})
}

// Checkout places an order from the cart, or from the buy-now line when
// one is supplied
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CheckoutInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	}

	if req.BuyNow != nil {
		line, err := h.buyNowLine(r, req.BuyNow)
		if err != nil {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		input.BuyNow = line
	}

	order, err := h.orders.Checkout(r.Context(), cartIdentity(r), input)
	if err != nil {
		if err == service.ErrEmptyCart {
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// buyNowLine resolves the requested product into a priced cart line,
// clamped to the live stock ceiling
func (h *OrderHandler) buyNowLine(r *http.Request, req *CartLineRequest) (*domain.CartLine, error) {
	product, err := h.inventory.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if limit := h.inventory.GetLiveStockLimit(r.Context(), product.ID, product.Stock); quantity > limit {
		if limit <= 0 {
			return nil, repository.ErrProductNotFound
		}
		quantity = limit
	}

	return &domain.CartLine{
		Product:  *product,
		Size:     req.Size,
		Color:    req.Color,
		Quantity: quantity,
	}, nil
}

// ListMine returns the authenticated customer's order history
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orders.ListByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
