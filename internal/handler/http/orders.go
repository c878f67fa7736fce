package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukahub/storefront/internal/auth"
	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/pkg/httputil"
	"github.com/dukahub/storefront/pkg/validator"
)

// storeBackend is the slice of the tenant client the order and contact
// endpoints need.
type storeBackend interface {
	Orders(ctx context.Context, token string) ([]domain.Order, error)
	SendMessage(ctx context.Context, name, email, message string) error
}

type policySource interface {
	Policy(ctx context.Context, slug string) (*domain.Policy, error)
}

// OrderHandler serves order history, policy pages, and the contact form.
type OrderHandler struct {
	backend  storeBackend
	policies policySource
	auth     *auth.Service
	logger   *slog.Logger
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(b storeBackend, p policySource, a *auth.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{backend: b, policies: p, auth: a, logger: logger}
}

// List handles GET /api/v1/orders for logged-in sessions.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.BackendToken(r.Context(), SessionID(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	orders, err := h.backend.Orders(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// Policy handles GET /api/v1/policies/{slug}.
func (h *OrderHandler) Policy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policies.Policy(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: policy})
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10"`
}

// Contact handles POST /api/v1/contact.
func (h *OrderHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.backend.SendMessage(r.Context(), req.Name, req.Email, req.Message); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": "your message has been sent",
	}})
}
