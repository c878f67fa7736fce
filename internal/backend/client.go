// Package backend talks to the tenant's commerce backend over HTTP. Every
// request carries the tenant identifier header; transport-level failover is
// handled by the mirror chain beneath the client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/pkg/httpclient"
)

// TenantHeader names the header identifying which store the request is for.
const TenantHeader = "Business"

// Client is the typed interface to the tenant backend.
type Client struct {
	doer   httpclient.Doer
	tenant string
}

// NewClient creates a backend client for the given tenant. The doer is
// usually a circuit breaker wrapping a mirror chain.
func NewClient(doer httpclient.Doer, tenant string) *Client {
	return &Client{doer: doer, tenant: tenant}
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	// The mirror chain rewrites scheme and host; only path and query matter.
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TenantHeader, c.tenant)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "backend")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// FetchProducts returns the tenant's full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// FetchProduct returns a single product by id.
func (c *Client) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	path := "/api/products/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// CheckoutInfo returns the tenant's payment options and delivery locations.
func (c *Client) CheckoutInfo(ctx context.Context) (*domain.CheckoutInfo, error) {
	var out domain.CheckoutInfo
	if err := c.do(ctx, http.MethodGet, "/api/checkout-info", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckoutRequest is the order submission payload.
type CheckoutRequest struct {
	Single           *domain.BuyNowItem `json:"single,omitempty"`
	Cart             []domain.CartLine  `json:"cart,omitempty"`
	Code             string             `json:"code,omitempty"`
	Mode             string             `json:"mode"`
	Total            int64              `json:"total"`
	Courier          string             `json:"courier"`
	Specifications   string             `json:"specifications,omitempty"`
	FullDeliveryTime string             `json:"fullDeliveryTime"`

	// Contact fields are set only on anonymous checkouts.
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// CheckoutResponse is the backend's acknowledgement of an order.
type CheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Checkout submits an order for an authenticated customer.
func (c *Client) Checkout(ctx context.Context, token string, req *CheckoutRequest) (*CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/checkout", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnonymousCheckout submits an order with inline contact details.
func (c *Client) AnonymousCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/checkout/anonymous", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthResponse carries the backend token and profile returned on login,
// registration, and verification.
type AuthResponse struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

// Login authenticates a customer against the tenant backend.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyAuth confirms a stored token is still valid and returns the current
// profile.
func (c *Client) VerifyAuth(ctx context.Context, token string) (*domain.Profile, error) {
	var out struct {
		User domain.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile writes profile changes through to the backend and returns
// the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile *domain.Profile) (*domain.Profile, error) {
	var out struct {
		User domain.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/account/profile", token, profile, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// RequestPasswordReset asks the backend to send a reset code to the email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", "", payload, nil)
}

// ResetPassword completes a password reset with the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, code, password string) error {
	payload := map[string]string{"email": email, "code": code, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", "", payload, nil)
}

// Orders returns the authenticated customer's order history.
func (c *Client) Orders(ctx context.Context, token string) ([]domain.Order, error) {
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// Policy returns a tenant-authored page such as terms or returns policy.
func (c *Client) Policy(ctx context.Context, slug string) (*domain.Policy, error) {
	var out domain.Policy
	path := "/api/policies/" + url.PathEscape(slug)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage forwards a contact-form message to the tenant.
func (c *Client) SendMessage(ctx context.Context, name, email, message string) error {
	payload := map[string]string{"name": name, "email": email, "message": message}
	return c.do(ctx, http.MethodPost, "/api/messages", "", payload, nil)
}

// SyncCartAdd mirrors a cart addition to the backend for authenticated
// customers. Callers treat failures as best effort.
func (c *Client) SyncCartAdd(ctx context.Context, token string, line domain.CartLine) error {
	return c.do(ctx, http.MethodPost, "/api/cart/add", token, line, nil)
}

// SyncCartRemove mirrors a cart removal to the backend for authenticated
// customers. Callers treat failures as best effort.
func (c *Client) SyncCartRemove(ctx context.Context, token string, line domain.CartLine) error {
	return c.do(ctx, http.MethodPost, "/api/cart/remove", token, line, nil)
}
