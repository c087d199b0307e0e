package handler

import (
	"net/http"

	"storefront/service"
)

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListAddresses(r.Context(), userID(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req service.AddressInput
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.svc.CreateAddress(r.Context(), userID(r), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteAddress(r.Context(), userID(r), id); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
