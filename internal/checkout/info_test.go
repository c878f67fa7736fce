package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/domain"
)

type countingInfo struct {
	calls int
	info  *domain.CheckoutInfo
}

func (c *countingInfo) CheckoutInfo(ctx context.Context) (*domain.CheckoutInfo, error) {
	c.calls++
	return c.info, nil
}

func TestCachedInfoFetchesOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingInfo{info: testInfo()}
	cached := NewCachedInfo(source, client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	first, err := cached.CheckoutInfo(ctx)
	require.NoError(t, err)
	second, err := cached.CheckoutInfo(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first.DeliveryLocations, second.DeliveryLocations)

	require.NoError(t, cached.Invalidate(ctx))
	_, err = cached.CheckoutInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
