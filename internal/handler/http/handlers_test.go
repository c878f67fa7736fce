package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/auth"
	"github.com/dukahub/storefront/internal/backend"
	"github.com/dukahub/storefront/internal/cart"
	"github.com/dukahub/storefront/internal/catalog"
	"github.com/dukahub/storefront/internal/checkout"
	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/internal/session"
	"github.com/dukahub/storefront/pkg/health"
	"github.com/dukahub/storefront/pkg/httpclient"
)

// fakeTenant is a minimal in-memory tenant backend.
type fakeTenant struct {
	products []domain.Product
	info     *domain.CheckoutInfo
	orders   []domain.Order
}

func (f *fakeTenant) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"products": f.products})
	})
	mux.HandleFunc("GET /api/checkout-info", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.info)
	})
	mux.HandleFunc("POST /api/checkout/anonymous", func(w http.ResponseWriter, r *http.Request) {
		var req backend.CheckoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Code == "REJECT" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"message":"transaction code was not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(backend.CheckoutResponse{Success: true, OrderID: "ord-1"})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(backend.AuthResponse{
			Token: "backend-jwt",
			User:  domain.Profile{Name: "Jane Wanjiru", Email: body["email"]},
		})
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer backend-jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": f.orders})
	})
	mux.HandleFunc("GET /api/policies/returns", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Policy{Slug: "returns", Title: "Returns", Content: "30 days."})
	})
	return mux
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	tenant := &fakeTenant{
		products: []domain.Product{
			{ID: "p-1", Name: "Mug", Price: 450, InStock: true},
			{ID: "p-2", Name: "T-Shirt", Price: 1200, InStock: true,
				Coupons: []domain.Coupon{{Name: "NEW10", Discount: 100, Default: true}}},
		},
		info: &domain.CheckoutInfo{
			PaymentOptions: []domain.PaymentOption{
				{Type: "mpesa_till", Name: "M-Pesa Till", TillNumber: "832100"},
				{Type: "on_delivery", Name: domain.PaymentModeOnDelivery},
			},
			DeliveryLocations: []domain.DeliveryLocation{
				{ID: "loc-1", County: "Nairobi", Subcounty: "Westlands",
					Courier: "Pickup Mtaani", Price: 150, Sameday: true, TransitMinutes: 120},
			},
		},
		orders: []domain.Order{{ID: "ord-7", Total: 900, Status: "delivered"}},
	}

	upstream := httptest.NewServer(tenant.handler())
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	clientCfg := httpclient.DefaultConfig()
	clientCfg.MaxRetries = 0
	chain, err := backend.NewMirrorChain([]string{upstream.URL}, httpclient.New(clientCfg), 10*time.Millisecond, logger)
	require.NoError(t, err)
	tenantClient := backend.NewClient(chain, "acme-store")

	store := session.NewStore(rdb, time.Hour)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	authSvc := auth.NewService(tenantClient, store, logger)
	cartSvc := cart.NewService(store, tenantClient, nil, logger)
	catalogSvc := catalog.NewService(tenantClient, rdb, logger)
	policies := catalog.NewPolicies(tenantClient, rdb, logger)
	info := checkout.NewCachedInfo(tenantClient, rdb, logger)
	checkoutSvc := checkout.NewService(store, tenantClient, info, nil, logger)

	return NewRouter(RouterConfig{ServiceName: "storefront", PolicyCacheMaxAge: 300}, Handlers{
		Products: NewProductHandler(catalogSvc, logger),
		Cart:     NewCartHandler(cartSvc, logger),
		Checkout: NewCheckoutHandler(checkoutSvc, logger),
		Auth:     NewAuthHandler(authSvc, logger),
		Orders:   NewOrderHandler(tenantClient, policies, authSvc, logger),
		Session:  NewSessionMiddleware(tokens, logger),
		Health:   health.NewHandler(),
	}, logger)
}

func doJSON(t *testing.T, h http.Handler, method, path, sessionToken, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionToken != "" {
		req.Header.Set(SessionHeader, sessionToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestSessionIsMinted(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/cart", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))
}

func TestSessionIsSticky(t *testing.T) {
	api := newTestAPI(t)

	first := doJSON(t, api, http.MethodGet, "/api/v1/cart", "", "")
	token := first.Header().Get(SessionHeader)

	add := doJSON(t, api, http.MethodPost, "/api/v1/cart/items", token,
		`{"product_id":"p-1","name":"Mug","price":450,"amount":2}`)
	require.Equal(t, http.StatusOK, add.Code)

	got := doJSON(t, api, http.MethodGet, "/api/v1/cart", token, "")
	data := dataOf(t, got)
	assert.Equal(t, float64(900), data["total_price"])
	assert.Equal(t, float64(2), data["total_count"])
}

func TestCartAddValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/cart/items", "", `{"price":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestProductList(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/products?page=1&per_page=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, rec)
	assert.Equal(t, float64(2), data["total_count"])
	assert.Equal(t, true, data["has_next"])
}

func TestProductSearch(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/products?q=shirt", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, rec)
	assert.Equal(t, float64(1), data["total_count"])
}

func TestNonJSONBodyRejected(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("product_id=p-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_MEDIA_TYPE")
}

func TestBuyNowQuote(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/products/p-2/buy-now?color=black", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, rec)
	assert.Equal(t, float64(1100), data["price"])
	assert.Equal(t, "NEW10", data["coupon_name"])
}

func TestAnonymousCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)

	token := doJSON(t, api, http.MethodGet, "/api/v1/cart", "", "").Header().Get(SessionHeader)

	open := doJSON(t, api, http.MethodPost, "/api/v1/checkout", token,
		`{"mode":"single","single":{"product_id":"p-1","name":"Mug","price":450}}`)
	require.Equal(t, http.StatusCreated, open.Code)
	assert.Equal(t, "delivery", dataOf(t, open)["step"])

	counties := doJSON(t, api, http.MethodGet, "/api/v1/checkout/counties?day=sameday", token, "")
	assert.Contains(t, counties.Body.String(), "Nairobi")

	del := doJSON(t, api, http.MethodPost, "/api/v1/checkout/delivery", token,
		`{"courier_id":"loc-1","specifications":"blue gate"}`)
	require.Equal(t, http.StatusOK, del.Code)
	assert.Equal(t, "profile", dataOf(t, del)["step"])

	prof := doJSON(t, api, http.MethodPost, "/api/v1/checkout/profile", token,
		`{"name":"Jane Wanjiru","phone":"0712345678","email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, prof.Code)
	assert.Equal(t, "payment", dataOf(t, prof)["step"])

	submit := doJSON(t, api, http.MethodPost, "/api/v1/checkout/submit", token,
		`{"mode":"Payment on delivery"}`)
	require.Equal(t, http.StatusOK, submit.Code)
	assert.Equal(t, "submitted", dataOf(t, submit)["step"])

	last := doJSON(t, api, http.MethodGet, "/api/v1/checkout/last-delivery", token, "")
	assert.Contains(t, last.Body.String(), "loc-1")
}

func TestCheckoutSubmitRejection(t *testing.T) {
	api := newTestAPI(t)

	token := doJSON(t, api, http.MethodGet, "/api/v1/cart", "", "").Header().Get(SessionHeader)

	doJSON(t, api, http.MethodPost, "/api/v1/checkout", token,
		`{"mode":"single","single":{"product_id":"p-1","name":"Mug","price":450}}`)
	doJSON(t, api, http.MethodPost, "/api/v1/checkout/delivery", token, `{"courier_id":"loc-1"}`)
	doJSON(t, api, http.MethodPost, "/api/v1/checkout/profile", token,
		`{"name":"Jane Wanjiru","phone":"0712345678","email":"jane@example.com"}`)

	submit := doJSON(t, api, http.MethodPost, "/api/v1/checkout/submit", token,
		`{"mode":"M-Pesa Till","code":"REJECT"}`)
	assert.Equal(t, http.StatusBadRequest, submit.Code)

	current := doJSON(t, api, http.MethodGet, "/api/v1/checkout", token, "")
	data := dataOf(t, current)
	assert.Equal(t, "payment", data["step"])
	assert.Equal(t, "transaction code was not found", data["submit_error"])
}

func TestLoginAndOrders(t *testing.T) {
	api := newTestAPI(t)

	token := doJSON(t, api, http.MethodGet, "/api/v1/cart", "", "").Header().Get(SessionHeader)

	login := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", token,
		`{"email":"jane@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, login.Code)

	orders := doJSON(t, api, http.MethodGet, "/api/v1/orders", token, "")
	require.Equal(t, http.StatusOK, orders.Code)
	assert.Contains(t, orders.Body.String(), "ord-7")
}

func TestOrdersRequireLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailure(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"jane@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicyPage(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/v1/policies/returns", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "30 days.")
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}

func TestHealthLive(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
