package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(newChain(t, srv.URL), "acme-store")
}

func TestFetchProductsSendsTenantHeader(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme-store", r.Header.Get(TenantHeader))
		assert.Equal(t, "/api/products", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []domain.Product{{ID: "p-1", Name: "Mug", Price: 450}},
		})
	}))

	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
}

func TestFetchProductNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"product not found"}`))
	}))

	_, err := client.FetchProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCheckoutSendsTokenAndPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/checkout", r.URL.Path)
		assert.Equal(t, "Bearer backend-jwt", r.Header.Get("Authorization"))

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cart", req.Mode)
		assert.Equal(t, int64(2950), req.Total)
		assert.Equal(t, "loc-2", req.Courier)

		_ = json.NewEncoder(w).Encode(CheckoutResponse{Success: true, OrderID: "ord-9"})
	}))

	resp, err := client.Checkout(context.Background(), "backend-jwt", &CheckoutRequest{
		Mode:             "cart",
		Cart:             []domain.CartLine{{ProductID: "p-1", Price: 2650, Amount: 1}},
		Total:            2950,
		Courier:          "loc-2",
		FullDeliveryTime: "4:00 PM Mon Mar 09 2026",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "ord-9", resp.OrderID)
}

func TestAnonymousCheckoutCarriesContact(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checkout/anonymous", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane Wanjiru", req.Name)
		assert.Equal(t, "+254712345678", req.Phone)

		_ = json.NewEncoder(w).Encode(CheckoutResponse{Success: true})
	}))

	_, err := client.AnonymousCheckout(context.Background(), &CheckoutRequest{
		Mode:  "single",
		Name:  "Jane Wanjiru",
		Phone: "+254712345678",
		Email: "jane@example.com",
	})
	require.NoError(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
	}))

	_, err := client.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestVerifyAuth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": domain.Profile{Name: "Jane Wanjiru", Email: "jane@example.com"},
		})
	}))

	profile, err := client.VerifyAuth(context.Background(), "stored-token")
	require.NoError(t, err)
	assert.Equal(t, "Jane Wanjiru", profile.Name)
}

func TestOrders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orders": []domain.Order{{ID: "ord-1", Total: 1200, Status: "delivered"}},
		})
	}))

	orders, err := client.Orders(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "delivered", orders[0].Status)
}

func TestPolicy(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/policies/returns", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Policy{Slug: "returns", Title: "Returns", Content: "30 days."})
	}))

	policy, err := client.Policy(context.Background(), "returns")
	require.NoError(t, err)
	assert.Equal(t, "Returns", policy.Title)
}
