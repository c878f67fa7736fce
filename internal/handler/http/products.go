// Package http exposes the storefront's REST API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukahub/storefront/internal/catalog"
	"github.com/dukahub/storefront/pkg/httputil"
	"github.com/dukahub/storefront/pkg/pagination"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewProductHandler creates a product handler.
func NewProductHandler(c *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: c, logger: logger}
}

// List handles GET /api/v1/products. The optional q parameter filters the
// catalog before paging.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.catalog.List(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// BuyNow handles GET /api/v1/products/{id}/buy-now. Query parameters pick
// the price option and variant; the response is the priced buy-now item.
func (h *ProductHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	item, err := h.catalog.BuyNowQuote(r.Context(),
		chi.URLParam(r, "id"),
		q.Get("option"),
		q.Get("color"),
		q.Get("size"),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}
