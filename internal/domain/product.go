package domain

// PriceOption is an alternative price for a product variant, e.g. a bundle
// size. At most one option is flagged as the default.
type PriceOption struct {
	Option  string `json:"option"`
	Price   int64  `json:"price"`
	Default bool   `json:"default,omitempty"`
}

// Coupon is a flat discount attached to a product. The default coupon is
// applied automatically on buy-now purchases.
type Coupon struct {
	Name     string `json:"name"`
	Discount int64  `json:"discount"`
	Default  bool   `json:"default,omitempty"`
}

// Product is the catalog record served by the tenant backend.
type Product struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Image        string        `json:"image,omitempty"`
	Images       []string      `json:"images,omitempty"`
	Price        int64         `json:"price"`
	Colors       []string      `json:"colors,omitempty"`
	Sizes        []string      `json:"sizes,omitempty"`
	Brand        string        `json:"brand,omitempty"`
	Category     string        `json:"category,omitempty"`
	Subcategory  string        `json:"subcategory,omitempty"`
	InStock      bool          `json:"in_stock"`
	PriceOptions []PriceOption `json:"price_options,omitempty"`
	Coupons      []Coupon      `json:"coupons,omitempty"`
}
