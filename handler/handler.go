package handler

import (
	"net/http"

	"storefront/auth"
	models "storefront/model"
	"storefront/service"

	"github.com/gorilla/mux"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc    service.ServiceInterface
	tokens auth.TokenIssuer
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, tokens auth.TokenIssuer) *Handler {
	return &Handler{svc: s, tokens: tokens}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Accounts
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	// Catalog
	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/brands", h.ListBrands).Methods(http.MethodGet)

	// Catalog administration
	api.Handle("/products", h.admin(h.CreateProduct)).Methods(http.MethodPost)
	api.Handle("/products/{id:[0-9]+}", h.admin(h.UpdateProduct)).Methods(http.MethodPut)
	api.Handle("/products/{id:[0-9]+}/stock", h.admin(h.UpdateStock)).Methods(http.MethodPatch)
	api.Handle("/products/{id:[0-9]+}", h.admin(h.DeleteProduct)).Methods(http.MethodDelete)

	// Cart
	api.Handle("/cart", h.authed(h.GetCart)).Methods(http.MethodGet)
	api.Handle("/cart/sync", h.authed(h.SyncCart)).Methods(http.MethodPut)

	// Orders
	api.Handle("/order/checkout", h.authed(h.Checkout)).Methods(http.MethodPost)
	api.Handle("/order", h.authed(h.ListOrders)).Methods(http.MethodGet)
	api.Handle("/order/{id:[0-9]+}", h.authed(h.GetOrder)).Methods(http.MethodGet)

	// Address book
	api.Handle("/addresses", h.authed(h.ListAddresses)).Methods(http.MethodGet)
	api.Handle("/addresses", h.authed(h.CreateAddress)).Methods(http.MethodPost)
	api.Handle("/addresses/{id:[0-9]+}", h.authed(h.DeleteAddress)).Methods(http.MethodDelete)
}

func (h *Handler) authed(fn http.HandlerFunc) http.Handler {
	return h.requireAuth(fn)
}

func (h *Handler) admin(fn http.HandlerFunc) http.Handler {
	return h.requireAuth(requireRole(models.RoleAdmin, fn))
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
