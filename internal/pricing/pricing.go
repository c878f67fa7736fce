// Package pricing computes unit prices, buy-now discounts, and cart totals.
package pricing

import "github.com/dukahub/storefront/internal/domain"

// DefaultOption returns the product's default price option, falling back to
// the first option when none is flagged. The boolean is false when the
// product has no options at all.
func DefaultOption(p domain.Product) (domain.PriceOption, bool) {
	if len(p.PriceOptions) == 0 {
		return domain.PriceOption{}, false
	}
	for _, opt := range p.PriceOptions {
		if opt.Default {
			return opt, true
		}
	}
	return p.PriceOptions[0], true
}

// DefaultCoupon returns the product's default coupon, falling back to the
// first coupon when none is flagged.
func DefaultCoupon(p domain.Product) (domain.Coupon, bool) {
	if len(p.Coupons) == 0 {
		return domain.Coupon{}, false
	}
	for _, c := range p.Coupons {
		if c.Default {
			return c, true
		}
	}
	return p.Coupons[0], true
}

// UnitPrice returns the effective unit price for the named option. An empty
// or unknown option name resolves to the default option's price, or the base
// product price when there are no options.
func UnitPrice(p domain.Product, option string) int64 {
	if option != "" {
		for _, opt := range p.PriceOptions {
			if opt.Option == option {
				return opt.Price
			}
		}
	}
	if opt, ok := DefaultOption(p); ok {
		return opt.Price
	}
	return p.Price
}

// BuyNowPrice returns the buy-now price: the option's unit price minus the
// default coupon discount. The result is not clamped at zero; a discount
// larger than the price surfaces as negative and is rejected downstream.
func BuyNowPrice(p domain.Product, option string) int64 {
	price := UnitPrice(p, option)
	if c, ok := DefaultCoupon(p); ok {
		price -= c.Discount
	}
	return price
}

// Totals returns the cart's total price and item count.
func Totals(cart *domain.Cart) (int64, int) {
	return cart.TotalPrice(), cart.TotalCount()
}
