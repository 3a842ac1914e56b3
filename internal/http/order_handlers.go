package http

import (
	"net/http"
	"strings"

	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
)

// Checkout handles POST /api/orders
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var request models.CheckoutRequest
	if err := h.decodeBody(w, r, &request); err != nil {
		h.writeServiceError(w, r, logger.OpCheckout, err)
		return
	}

	order, err := h.orders.Checkout(r.Context(), identity.UserID, request)
	if err != nil {
		h.writeServiceError(w, r, logger.OpCheckout, err)
		return
	}
	h.respond(w, r, logger.OpCheckout, http.StatusCreated, order)
}

// ListMyOrders handles GET /api/orders
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	params, err := models.ParseListParams(r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, logger.OpListOrders, err)
		return
	}

	page, err := h.orders.ListUserOrders(r.Context(), identity.UserID, params)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListOrders, err)
		return
	}
	h.respond(w, r, logger.OpListOrders, http.StatusOK, page)
}

// GetOrder handles GET /api/orders/{id}; admins may read any order
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	ownerID := identity.UserID
	if identity.IsAdmin() {
		ownerID = ""
	}

	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"], ownerID)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListOrders, err)
		return
	}
	h.respond(w, r, logger.OpListOrders, http.StatusOK, order)
}

// ListAllOrders handles GET /api/admin/orders
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params, err := models.ParseListParams(query)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListOrders, err)
		return
	}

	filter := models.OrderFilter{
		ListParams: params,
		UserID:     strings.TrimSpace(query.Get("userId")),
		Status:     models.OrderStatus(strings.TrimSpace(query.Get("status"))),
	}

	page, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListOrders, err)
		return
	}
	h.respond(w, r, logger.OpListOrders, http.StatusOK, page)
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var update models.StatusUpdate
	if err := h.decodeBody(w, r, &update); err != nil {
		h.writeServiceError(w, r, logger.OpUpdateOrder, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], update.Status)
	if err != nil {
		h.writeServiceError(w, r, logger.OpUpdateOrder, err)
		return
	}
	h.respond(w, r, logger.OpUpdateOrder, http.StatusOK, order)
}
