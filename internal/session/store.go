// Package session persists per-session storefront state in Redis: the cart,
// the auth token, the cached profile, and the last delivery selection.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

const (
	cartKeyFmt     = "session:%s:cart"
	tokenKeyFmt    = "session:%s:token"
	profileKeyFmt  = "session:%s:profile"
	deliveryKeyFmt = "session:%s:delivery"
	draftKeyFmt    = "session:%s:draft"
)

// DraftTTL bounds how long an unfinished checkout draft survives.
const DraftTTL = 30 * time.Minute

// Store reads and writes session state in Redis. Cart and delivery entries
// share the session TTL; checkout drafts expire on their own shorter TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. ttl applies to everything except
// checkout drafts.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal session value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("write session value: %w", err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read session value: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal session value: %w", err)
	}
	return nil
}

// Cart returns the session's cart. A session without a cart gets an empty one.
func (s *Store) Cart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.getJSON(ctx, fmt.Sprintf(cartKeyFmt, sessionID), &cart)
	if errors.Is(err, apperrors.ErrNotFound) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart stores the session's cart and refreshes its TTL.
func (s *Store) SaveCart(ctx context.Context, sessionID string, cart *domain.Cart) error {
	return s.setJSON(ctx, fmt.Sprintf(cartKeyFmt, sessionID), cart, s.ttl)
}

// DeleteCart removes the session's cart.
func (s *Store) DeleteCart(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, fmt.Sprintf(cartKeyFmt, sessionID)).Err()
}

// Token returns the backend auth token bound to the session, or ErrNotFound.
func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	var token string
	if err := s.getJSON(ctx, fmt.Sprintf(tokenKeyFmt, sessionID), &token); err != nil {
		return "", err
	}
	return token, nil
}

// SaveToken binds a backend auth token to the session.
func (s *Store) SaveToken(ctx context.Context, sessionID, token string) error {
	return s.setJSON(ctx, fmt.Sprintf(tokenKeyFmt, sessionID), token, s.ttl)
}

// DeleteToken unbinds the backend auth token, logging the session out.
func (s *Store) DeleteToken(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, fmt.Sprintf(tokenKeyFmt, sessionID)).Err()
}

// Profile returns the cached account profile, or ErrNotFound.
func (s *Store) Profile(ctx context.Context, sessionID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := s.getJSON(ctx, fmt.Sprintf(profileKeyFmt, sessionID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile caches the account profile for the session.
func (s *Store) SaveProfile(ctx context.Context, sessionID string, profile *domain.Profile) error {
	return s.setJSON(ctx, fmt.Sprintf(profileKeyFmt, sessionID), profile, s.ttl)
}

// DeleteProfile removes the cached profile.
func (s *Store) DeleteProfile(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, fmt.Sprintf(profileKeyFmt, sessionID)).Err()
}

// DeliverySelection returns the last-used delivery choice, or ErrNotFound.
func (s *Store) DeliverySelection(ctx context.Context, sessionID string) (*domain.DeliverySelection, error) {
	var sel domain.DeliverySelection
	if err := s.getJSON(ctx, fmt.Sprintf(deliveryKeyFmt, sessionID), &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

// SaveDeliverySelection remembers the delivery choice for future checkouts.
func (s *Store) SaveDeliverySelection(ctx context.Context, sessionID string, sel *domain.DeliverySelection) error {
	return s.setJSON(ctx, fmt.Sprintf(deliveryKeyFmt, sessionID), sel, s.ttl)
}

// Draft returns the session's in-progress checkout draft, or ErrNotFound
// when none exists or it has expired.
func (s *Store) Draft(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	var draft domain.CheckoutDraft
	if err := s.getJSON(ctx, fmt.Sprintf(draftKeyFmt, sessionID), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft stores the checkout draft with the draft TTL.
func (s *Store) SaveDraft(ctx context.Context, sessionID string, draft *domain.CheckoutDraft) error {
	return s.setJSON(ctx, fmt.Sprintf(draftKeyFmt, sessionID), draft, DraftTTL)
}

// DeleteDraft abandons the checkout draft.
func (s *Store) DeleteDraft(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, fmt.Sprintf(draftKeyFmt, sessionID)).Err()
}

// Clear removes all state for the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	keys := []string{
		fmt.Sprintf(cartKeyFmt, sessionID),
		fmt.Sprintf(tokenKeyFmt, sessionID),
		fmt.Sprintf(profileKeyFmt, sessionID),
		fmt.Sprintf(deliveryKeyFmt, sessionID),
		fmt.Sprintf(draftKeyFmt, sessionID),
	}
	return s.client.Del(ctx, keys...).Err()
}
