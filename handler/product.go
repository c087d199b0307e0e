package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	models "storefront/model"
	"storefront/service"

	"github.com/shopspring/decimal"
)

// parseProductFilter reads the catalog query string. Malformed values are
// collected per parameter.
func parseProductFilter(q url.Values) (models.ProductFilter, map[string]string) {
	f := models.ProductFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
	}
	bad := map[string]string{}

	optID := func(key string) *int64 {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			bad[key] = "must be an integer"
			return nil
		}
		return &n
	}
	optPrice := func(key string) *decimal.Decimal {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			bad[key] = "must be a number"
			return nil
		}
		return &d
	}
	optInt := func(key string) int {
		v := q.Get(key)
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			bad[key] = "must be an integer"
		}
		return n
	}

	f.CategoryID = optID("categoryId")
	f.BrandID = optID("brandId")
	f.MinPrice = optPrice("minPrice")
	f.MaxPrice = optPrice("maxPrice")
	f.PageNumber = optInt("pageNumber")
	f.PageSize = optInt("pageSize")
	return f, bad
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, bad := parseProductFilter(r.URL.Query())
	if len(bad) > 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "validation failed", Errors: bad})
		return
	}
	page, err := h.svc.ListProducts(r.Context(), f)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.TotalCount))
	w.Header().Set("X-Page-Number", strconv.Itoa(page.PageNumber))
	w.Header().Set("X-Page-Size", strconv.Itoa(page.PageSize))
	writeJSON(w, http.StatusOK, page.Items)
}

// GetProduct handles GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", p.ID))
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.ProductUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateProduct(r.Context(), id, req); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStock handles PATCH /api/products/{id}/stock
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.StockUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateStock(r.Context(), id, req); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListBrands(r.Context())
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
