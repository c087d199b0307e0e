package handler

import (
	"fmt"
	"net/http"

	"storefront/service"
)

// Checkout handles POST /api/order/checkout
// body: { "shippingAddressId": 1, "billingAddressId": 2, "paymentMethod": "Card" }
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.Checkout(r.Context(), userID(r), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/order/%d", order.ID))
	writeJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/order
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context(), userID(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/order/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), userID(r), id)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
