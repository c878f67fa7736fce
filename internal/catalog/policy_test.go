package catalog

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
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

type stubPolicyBackend struct {
	calls    int
	policies map[string]domain.Policy
}

func (s *stubPolicyBackend) Policy(ctx context.Context, slug string) (*domain.Policy, error) {
	s.calls++
	p, ok := s.policies[slug]
	if !ok {
		return nil, apperrors.NotFound("policy", slug)
	}
	return &p, nil
}

func newTestPolicies(t *testing.T) (*Policies, *stubPolicyBackend) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := &stubPolicyBackend{policies: map[string]domain.Policy{
		"returns": {Slug: "returns", Title: "Returns", Content: "30 days."},
	}}
	return NewPolicies(b, client, slog.New(slog.NewTextHandler(io.Discard, nil))), b
}

func TestPolicyCachesPerSlug(t *testing.T) {
	p, b := newTestPolicies(t)
	ctx := context.Background()

	first, err := p.Policy(ctx, "returns")
	require.NoError(t, err)
	assert.Equal(t, "Returns", first.Title)

	second, err := p.Policy(ctx, "returns")
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)

	assert.Equal(t, 1, b.calls)
}

func TestPolicyUnknownSlug(t *testing.T) {
	p, b := newTestPolicies(t)

	_, err := p.Policy(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, b.calls)
}
