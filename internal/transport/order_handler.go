package transport

import (
	"encoding/json"
	"net/http"

	"furnish-must/internal/domain"
	"furnish-must/internal/middleware"
	"furnish-must/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderRequest is a checkout submission payload.
type OrderRequest struct {
	Items    []domain.OrderItem   `json:"items"`
	Totals   domain.OrderTotals   `json:"totals"`
	Customer domain.OrderCustomer `json:"customer"`
}

// OrderResponse acknowledges a persisted order.
type OrderResponse struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId"`
}

// OrderHandler handles the public order intake endpoint.
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers the order intake route
func (h *OrderHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	if limiter != nil {
		r.With(limiter).Post("/api/orders", h.Create)
		return
	}
	r.Post("/api/orders", h.Create)
}

// Create handles POST /api/orders. Validation failures (empty cart,
// missing customer email) surface as client errors.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Order decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.Create(r.Context(), service.OrderInput{
		Items:    req.Items,
		Totals:   req.Totals,
		Customer: req.Customer,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, OrderResponse{
		OK:      true,
		OrderID: order.ID.Hex(),
	})
}
