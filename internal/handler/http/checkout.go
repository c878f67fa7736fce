package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukahub/storefront/internal/checkout"
	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
	"github.com/dukahub/storefront/pkg/httputil"
	"github.com/dukahub/storefront/pkg/validator"
)

// CheckoutHandler serves the checkout flow endpoints.
type CheckoutHandler struct {
	checkout *checkout.Service
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(c *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: c, logger: logger}
}

type openCheckoutRequest struct {
	Mode   string             `json:"mode" validate:"required,oneof=cart single"`
	Single *domain.BuyNowItem `json:"single"`
}

// Open handles POST /api/v1/checkout.
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openCheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.checkout.Open(r.Context(), SessionID(r.Context()), domain.CheckoutMode(req.Mode), req.Single)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: draft})
}

// Current handles GET /api/v1/checkout.
func (h *CheckoutHandler) Current(w http.ResponseWriter, r *http.Request) {
	draft, err := h.checkout.Current(r.Context(), SessionID(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// Abandon handles DELETE /api/v1/checkout.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Abandon(r.Context(), SessionID(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Counties handles GET /api/v1/checkout/counties?day=sameday.
func (h *CheckoutHandler) Counties(w http.ResponseWriter, r *http.Request) {
	counties, err := h.checkout.Counties(r.Context(), domain.DeliveryDay(r.URL.Query().Get("day")))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counties})
}

// Subcounties handles GET /api/v1/checkout/subcounties?day=&county=.
func (h *CheckoutHandler) Subcounties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subcounties, err := h.checkout.Subcounties(r.Context(), domain.DeliveryDay(q.Get("day")), q.Get("county"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: subcounties})
}

// Couriers handles GET /api/v1/checkout/couriers?day=&county=&subcounty=.
func (h *CheckoutHandler) Couriers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	couriers, err := h.checkout.Couriers(r.Context(),
		domain.DeliveryDay(q.Get("day")), q.Get("county"), q.Get("subcounty"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: couriers})
}

// PaymentOptions handles GET /api/v1/checkout/payment-options.
func (h *CheckoutHandler) PaymentOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.checkout.PaymentOptions(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: options})
}

// LastDelivery handles GET /api/v1/checkout/last-delivery. A session with no
// remembered choice gets an empty object rather than an error.
func (h *CheckoutHandler) LastDelivery(w http.ResponseWriter, r *http.Request) {
	sel, err := h.checkout.LastDelivery(r.Context(), SessionID(r.Context()))
	if errors.Is(err, apperrors.ErrNotFound) {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: domain.DeliverySelection{}})
		return
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sel})
}

type setDeliveryRequest struct {
	CourierID      string `json:"courier_id" validate:"required"`
	Specifications string `json:"specifications"`
}

// SetDelivery handles POST /api/v1/checkout/delivery.
func (h *CheckoutHandler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var req setDeliveryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.checkout.SetDelivery(r.Context(), SessionID(r.Context()), req.CourierID, req.Specifications)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

type setProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// SetProfile handles POST /api/v1/checkout/profile.
func (h *CheckoutHandler) SetProfile(w http.ResponseWriter, r *http.Request) {
	var req setProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.checkout.SetProfile(r.Context(), SessionID(r.Context()), &domain.ContactProfile{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// Back handles POST /api/v1/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	draft, err := h.checkout.Back(r.Context(), SessionID(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

type submitRequest struct {
	Mode string `json:"mode" validate:"required"`
	Code string `json:"code"`
}

// Submit handles POST /api/v1/checkout/submit. A backend rejection writes
// the error envelope; the saved draft keeps the message in submit_error for
// the client's next fetch of the checkout.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.checkout.Submit(r.Context(), SessionID(r.Context()), &domain.PaymentDetails{
		Mode: req.Mode,
		Code: req.Code,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}
