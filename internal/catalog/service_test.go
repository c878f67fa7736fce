package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
	"github.com/dukahub/storefront/pkg/pagination"
)

type stubBackend struct {
	listCalls int
	products  []domain.Product
}

func (s *stubBackend) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	s.listCalls++
	return s.products, nil
}

func (s *stubBackend) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

func newTestService(t *testing.T, products []domain.Product) (*Service, *stubBackend) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := &stubBackend{products: products}
	return NewService(b, client, slog.New(slog.NewTextHandler(io.Discard, nil))), b
}

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: "p-1", Name: "Mug", Price: 450, InStock: true},
		{ID: "p-2", Name: "T-Shirt", Price: 1200, InStock: true,
			PriceOptions: []domain.PriceOption{
				{Option: "Single", Price: 1200},
				{Option: "Bundle of 3", Price: 3000, Default: true},
			},
			Coupons: []domain.Coupon{{Name: "NEW10", Discount: 100, Default: true}},
		},
		{ID: "p-3", Name: "Cap", Price: 800},
	}
}

func TestListPaginates(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts())

	result, err := svc.List(context.Background(), "", pagination.Params{Page: 2, PerPage: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "p-3", result.Data[0].ID)
	assert.True(t, result.HasPrev)
	assert.False(t, result.HasNext)
}

func TestListUsesCache(t *testing.T) {
	svc, b := newTestService(t, catalogProducts())
	ctx := context.Background()

	_, err := svc.List(ctx, "", pagination.DefaultParams())
	require.NoError(t, err)
	_, err = svc.List(ctx, "", pagination.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1, b.listCalls)
}

func TestListFiltersByQuery(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts())

	result, err := svc.List(context.Background(), "shirt", pagination.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "p-2", result.Data[0].ID)
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts())

	product, err := svc.Get(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", product.Name)
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts())

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestBuyNowQuoteAppliesDefaultCoupon(t *testing.T) {
	svc, _ := newTestService(t, catalogProducts())

	item, err := svc.BuyNowQuote(context.Background(), "p-2", "Single", "black", "L")
	require.NoError(t, err)

	assert.Equal(t, int64(1100), item.Price)
	assert.Equal(t, "NEW10", item.CouponName)
	assert.Equal(t, "black", item.Color)
}

func TestBuyNowQuoteRejectsOversizedCoupon(t *testing.T) {
	svc, _ := newTestService(t, []domain.Product{
		{ID: "p-9", Name: "Sticker", Price: 50,
			Coupons: []domain.Coupon{{Name: "BIG", Discount: 100, Default: true}}},
	})

	_, err := svc.BuyNowQuote(context.Background(), "p-9", "", "", "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
