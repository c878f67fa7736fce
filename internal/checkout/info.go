package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukahub/storefront/internal/domain"
)

const (
	infoCacheKey = "tenant:checkout-info"
	infoCacheTTL = time.Hour
)

type infoSource interface {
	CheckoutInfo(ctx context.Context) (*domain.CheckoutInfo, error)
}

// CachedInfo serves the tenant's checkout reference data from Redis,
// refreshing from the backend when the cache entry is missing or stale.
// Payment options and delivery locations change rarely; an hour of staleness
// is acceptable and keeps checkout off the backend's hot path.
type CachedInfo struct {
	source infoSource
	client *redis.Client
	logger *slog.Logger
}

// NewCachedInfo creates a caching wrapper around the backend's checkout-info.
func NewCachedInfo(source infoSource, client *redis.Client, logger *slog.Logger) *CachedInfo {
	return &CachedInfo{source: source, client: client, logger: logger}
}

// CheckoutInfo returns the cached reference data, fetching on a miss.
func (c *CachedInfo) CheckoutInfo(ctx context.Context) (*domain.CheckoutInfo, error) {
	data, err := c.client.Get(ctx, infoCacheKey).Bytes()
	if err == nil {
		var info domain.CheckoutInfo
		if jsonErr := json.Unmarshal(data, &info); jsonErr == nil {
			return &info, nil
		}
		// Corrupt entry; fall through to refetch.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "checkout info cache read failed", slog.String("error", err.Error()))
	}

	info, err := c.source.CheckoutInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch checkout info: %w", err)
	}

	if data, err := json.Marshal(info); err == nil {
		if err := c.client.Set(ctx, infoCacheKey, data, infoCacheTTL).Err(); err != nil {
			c.logger.WarnContext(ctx, "checkout info cache write failed", slog.String("error", err.Error()))
		}
	}
	return info, nil
}

// Invalidate drops the cached entry so the next read refetches.
func (c *CachedInfo) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, infoCacheKey).Err()
}
