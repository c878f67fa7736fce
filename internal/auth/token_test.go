package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dukahub/storefront/pkg/errors"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue("sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue("sess-1")
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("sess-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-jwt")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
