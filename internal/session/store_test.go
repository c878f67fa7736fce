package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, 24*time.Hour), mr
}

func TestCartRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	cart := &domain.Cart{Lines: []domain.CartLine{
		{ProductID: "p-1", Name: "Mug", Price: 450, Amount: 2, Color: "white"},
	}}
	require.NoError(t, store.SaveCart(ctx, "sess-1", cart))

	got, err := store.Cart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, got.Lines)
}

func TestCartMissingReturnsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	cart, err := store.Cart(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartIsolatedPerSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, "sess-a", &domain.Cart{
		Lines: []domain.CartLine{{ProductID: "p-1", Amount: 1}},
	}))

	other, err := store.Cart(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestTokenRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Token(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, store.SaveToken(ctx, "sess-1", "backend-jwt"))

	token, err := store.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "backend-jwt", token)

	require.NoError(t, store.DeleteToken(ctx, "sess-1"))
	_, err = store.Token(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDraftExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	draft := &domain.CheckoutDraft{ID: "d-1", SessionID: "sess-1", Step: domain.StepDelivery}
	require.NoError(t, store.SaveDraft(ctx, "sess-1", draft))

	got, err := store.Draft(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ID)

	mr.FastForward(DraftTTL + time.Minute)

	_, err = store.Draft(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeliverySelectionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sel := &domain.DeliverySelection{County: "Nairobi", Subcounty: "Westlands", CourierID: "loc-2"}
	require.NoError(t, store.SaveDeliverySelection(ctx, "sess-1", sel))

	got, err := store.DeliverySelection(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sel, got)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, "sess-1", "tok"))
	require.NoError(t, store.SaveCart(ctx, "sess-1", &domain.Cart{
		Lines: []domain.CartLine{{ProductID: "p-1", Amount: 1}},
	}))

	require.NoError(t, store.Clear(ctx, "sess-1"))

	_, err := store.Token(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	cart, err := store.Cart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}
