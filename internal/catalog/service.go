// Package catalog serves the tenant's products with a Redis cache in front
// of the backend, paginated locally since the backend returns whole lists.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/internal/pricing"
	apperrors "github.com/dukahub/storefront/pkg/errors"
	"github.com/dukahub/storefront/pkg/pagination"
)

const (
	productsCacheKey = "tenant:products"
	productsCacheTTL = 5 * time.Minute
)

type productBackend interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Service lists and resolves catalog products.
type Service struct {
	backend productBackend
	cache   *redis.Client
	logger  *slog.Logger
}

// NewService creates a catalog service.
func NewService(b productBackend, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{backend: b, cache: cache, logger: logger}
}

func (s *Service) products(ctx context.Context) ([]domain.Product, error) {
	data, err := s.cache.Get(ctx, productsCacheKey).Bytes()
	if err == nil {
		var products []domain.Product
		if jsonErr := json.Unmarshal(data, &products); jsonErr == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "product cache read failed", slog.String("error", err.Error()))
	}

	products, err := s.backend.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, productsCacheKey, data, productsCacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed", slog.String("error", err.Error()))
		}
	}
	return products, nil
}

// List returns one page of the catalog. A non-empty query narrows the list
// by case-insensitive match on name, brand, and category before paging.
func (s *Service) List(ctx context.Context, query string, params pagination.Params) (pagination.Result[domain.Product], error) {
	products, err := s.products(ctx)
	if err != nil {
		return pagination.Result[domain.Product]{}, err
	}
	if query != "" {
		products = filterProducts(products, query)
	}
	page := pagination.Slice(products, params)
	return pagination.NewResult(page, len(products), params), nil
}

func filterProducts(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(query)
	var matched []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Subcategory), q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Get returns a product by id, preferring the cached list before asking the
// backend directly.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	products, err := s.products(ctx)
	if err == nil {
		for i := range products {
			if products[i].ID == id {
				return &products[i], nil
			}
		}
	}

	return s.backend.FetchProduct(ctx, id)
}

// BuyNowQuote prices a direct purchase of the product: the chosen option's
// unit price minus the default coupon. A discount exceeding the price makes
// the item unpurchasable.
func (s *Service) BuyNowQuote(ctx context.Context, id, option, color, size string) (*domain.BuyNowItem, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	price := pricing.BuyNowPrice(*product, option)
	if price < 0 {
		return nil, apperrors.InvalidInput("coupon exceeds the product price")
	}

	item := &domain.BuyNowItem{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          price,
		Color:          color,
		Size:           size,
		SelectedOption: option,
	}
	if c, ok := pricing.DefaultCoupon(*product); ok {
		item.CouponName = c.Name
	}
	return item, nil
}
