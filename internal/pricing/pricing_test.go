package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukahub/storefront/internal/domain"
)

func product() domain.Product {
	return domain.Product{
		ID:    "p-1",
		Name:  "Running Shoes",
		Price: 2500,
		PriceOptions: []domain.PriceOption{
			{Option: "Single pair", Price: 2500},
			{Option: "Two pairs", Price: 4500, Default: true},
		},
		Coupons: []domain.Coupon{
			{Name: "LAUNCH", Discount: 200},
			{Name: "VIP", Discount: 500, Default: true},
		},
	}
}

func TestDefaultOption(t *testing.T) {
	opt, ok := DefaultOption(product())
	assert.True(t, ok)
	assert.Equal(t, "Two pairs", opt.Option)
}

func TestDefaultOptionFallsBackToFirst(t *testing.T) {
	p := product()
	for i := range p.PriceOptions {
		p.PriceOptions[i].Default = false
	}

	opt, ok := DefaultOption(p)
	assert.True(t, ok)
	assert.Equal(t, "Single pair", opt.Option)
}

func TestDefaultOptionNoOptions(t *testing.T) {
	_, ok := DefaultOption(domain.Product{Price: 100})
	assert.False(t, ok)
}

func TestUnitPrice(t *testing.T) {
	p := product()

	assert.Equal(t, int64(2500), UnitPrice(p, "Single pair"))
	assert.Equal(t, int64(4500), UnitPrice(p, ""))
	assert.Equal(t, int64(4500), UnitPrice(p, "no such option"))
}

func TestUnitPriceNoOptions(t *testing.T) {
	assert.Equal(t, int64(700), UnitPrice(domain.Product{Price: 700}, ""))
}

func TestBuyNowPrice(t *testing.T) {
	assert.Equal(t, int64(4000), BuyNowPrice(product(), "Two pairs"))
}

func TestBuyNowPriceCanGoNegative(t *testing.T) {
	p := domain.Product{
		Price:   100,
		Coupons: []domain.Coupon{{Name: "BIG", Discount: 150, Default: true}},
	}

	assert.Equal(t, int64(-50), BuyNowPrice(p, ""))
}

func TestTotals(t *testing.T) {
	cart := &domain.Cart{Lines: []domain.CartLine{
		{ProductID: "a", Price: 1000, Amount: 2},
		{ProductID: "b", Price: 250, Amount: 3},
	}}

	total, count := Totals(cart)
	assert.Equal(t, int64(2750), total)
	assert.Equal(t, 5, count)
}

func TestTotalsEmptyCart(t *testing.T) {
	total, count := Totals(&domain.Cart{})
	assert.Zero(t, total)
	assert.Zero(t, count)
}
