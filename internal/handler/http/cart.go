package http

import (
	"log/slog"
	"net/http"

	"github.com/dukahub/storefront/internal/cart"
	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/pkg/httputil"
	"github.com/dukahub/storefront/pkg/validator"
)

// CartHandler serves the session cart endpoints.
type CartHandler struct {
	cart   *cart.Service
	logger *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(c *cart.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: c, logger: logger}
}

// cartView decorates the cart with its running totals.
type cartView struct {
	Lines      []domain.CartLine `json:"lines"`
	TotalPrice int64             `json:"total_price"`
	TotalCount int               `json:"total_count"`
}

func viewOf(c *domain.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartView{Lines: lines, TotalPrice: c.TotalPrice(), TotalCount: c.TotalCount()}
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.cart.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(c)})
}

type cartLineRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Price          int64  `json:"price" validate:"gte=0"`
	Amount         int    `json:"amount" validate:"gte=0"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	SelectedOption string `json:"selected_option"`
}

func (req *cartLineRequest) line() domain.CartLine {
	return domain.CartLine{
		ProductID:      req.ProductID,
		Name:           req.Name,
		Description:    req.Description,
		Image:          req.Image,
		Price:          req.Price,
		Amount:         req.Amount,
		Color:          req.Color,
		Size:           req.Size,
		SelectedOption: req.SelectedOption,
	}
}

// Add handles POST /api/v1/cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.cart.Add(r.Context(), SessionID(r.Context()), req.line())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(c)})
}

// Remove handles POST /api/v1/cart/items/remove. Each call decrements the
// matching line by one.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.cart.Remove(r.Context(), SessionID(r.Context()), req.line())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(c)})
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), SessionID(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(&domain.Cart{})})
}
