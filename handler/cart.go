package handler

import (
	"net/http"

	"storefront/service"
)

// GetCart handles GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.GetCart(r.Context(), userID(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// SyncCart handles PUT /api/cart/sync
// body: { "userId": "...", "items": [{ "id": 0, "productId": 1, "quantity": 2 }] }
func (h *Handler) SyncCart(w http.ResponseWriter, r *http.Request) {
	var req service.SyncCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.svc.SyncCart(r.Context(), userID(r), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
