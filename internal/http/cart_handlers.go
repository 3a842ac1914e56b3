package http

import (
	"net/http"

	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
)

// GetCart handles GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}
	h.respond(w, r, logger.OpCart, http.StatusOK, cart)
}

// AddCartItem handles POST /api/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var input models.CartItemInput
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), identity.UserID, input)
	if err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}
	h.respond(w, r, logger.OpCart, http.StatusOK, cart)
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=99"`
}

// UpdateCartItem handles PUT /api/cart/items/{bookId}
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var input quantityRequest
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), identity.UserID, mux.Vars(r)["bookId"], input.Quantity)
	if err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}
	h.respond(w, r, logger.OpCart, http.StatusOK, cart)
}

// RemoveCartItem handles DELETE /api/cart/items/{bookId}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), identity.UserID, mux.Vars(r)["bookId"])
	if err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}
	h.respond(w, r, logger.OpCart, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Clear(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, r, logger.OpCart, err)
		return
	}
	h.respond(w, r, logger.OpCart, http.StatusOK, cart)
}
