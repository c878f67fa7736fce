package catalog

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
	policyCacheKeyFmt = "tenant:policy:%s"
	policyCacheTTL    = time.Hour
)

type policyBackend interface {
	Policy(ctx context.Context, slug string) (*domain.Policy, error)
}

// Policies serves the tenant's policy pages from Redis, refetching from the
// backend on a miss. Policy text changes rarely.
type Policies struct {
	backend policyBackend
	cache   *redis.Client
	logger  *slog.Logger
}

// NewPolicies creates a caching policy source.
func NewPolicies(b policyBackend, cache *redis.Client, logger *slog.Logger) *Policies {
	return &Policies{backend: b, cache: cache, logger: logger}
}

// Policy returns the policy page for the slug.
func (p *Policies) Policy(ctx context.Context, slug string) (*domain.Policy, error) {
	key := fmt.Sprintf(policyCacheKeyFmt, slug)

	data, err := p.cache.Get(ctx, key).Bytes()
	if err == nil {
		var policy domain.Policy
		if jsonErr := json.Unmarshal(data, &policy); jsonErr == nil {
			return &policy, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		p.logger.WarnContext(ctx, "policy cache read failed", slog.String("error", err.Error()))
	}

	policy, err := p.backend.Policy(ctx, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(policy); err == nil {
		if err := p.cache.Set(ctx, key, data, policyCacheTTL).Err(); err != nil {
			p.logger.WarnContext(ctx, "policy cache write failed", slog.String("error", err.Error()))
		}
	}
	return policy, nil
}
