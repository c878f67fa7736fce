package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewStore(client, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(store, nil, nil, logger)
}

func line(pid, color string, amount int, price int64) domain.CartLine {
	return domain.CartLine{ProductID: pid, Color: color, Amount: amount, Price: price}
}

func TestAddNewLine(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cart, err := svc.Add(ctx, "sess-1", line("p-1", "red", 1, 500))
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(500), cart.TotalPrice())
	assert.Equal(t, 1, cart.TotalCount())
}

func TestAddMergesSameVariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 1, 500))
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "sess-1", line("p-1", "red", 2, 500))
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Amount)
	assert.Equal(t, int64(1500), cart.TotalPrice())
}

func TestAddDifferentVariantKeepsSeparateLines(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 1, 500))
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "sess-1", line("p-1", "blue", 1, 500))
	require.NoError(t, err)

	assert.Len(t, cart.Lines, 2)
}

func TestAddDefaultsAmountToOne(t *testing.T) {
	svc := newTestService(t)

	cart, err := svc.Add(context.Background(), "sess-1", line("p-1", "", 0, 200))
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Amount)
}

func TestAddRequiresProductID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Add(context.Background(), "sess-1", domain.CartLine{Amount: 1})
	assert.Error(t, err)
}

func TestRemoveDecrements(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 3, 500))
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, "sess-1", line("p-1", "red", 0, 500))
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines[0].Amount)
}

func TestRemoveDropsLineAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 1, 500))
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, "sess-1", line("p-1", "red", 0, 500))
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 1, 500))
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, "sess-1", line("p-9", "", 0, 0))
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", line("p-1", "red", 2, 500))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "sess-1"))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}
