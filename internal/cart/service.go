// Package cart implements the session cart: merge-on-add lines, decrementing
// removal, and best-effort mirroring to the backend for logged-in customers.
package cart

import (
	"context"
	"log/slog"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

type cartStore interface {
	Cart(ctx context.Context, sessionID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
	Token(ctx context.Context, sessionID string) (string, error)
}

type cartSyncer interface {
	SyncCartAdd(ctx context.Context, token string, line domain.CartLine) error
	SyncCartRemove(ctx context.Context, token string, line domain.CartLine) error
}

type cartEvents interface {
	CartUpdated(ctx context.Context, sessionID, action, productID string, cart *domain.Cart)
}

// Service manages the session cart.
type Service struct {
	store  cartStore
	syncer cartSyncer
	events cartEvents
	logger *slog.Logger
}

// NewService creates a cart service. syncer and events may be nil.
func NewService(store cartStore, syncer cartSyncer, events cartEvents, logger *slog.Logger) *Service {
	return &Service{store: store, syncer: syncer, events: events, logger: logger}
}

// Get returns the session's cart.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Cart(ctx, sessionID)
}

// Add puts a line into the cart. A line matching an existing variant merges
// into it by amount instead of appearing twice.
func (s *Service) Add(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	if line.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if line.Amount <= 0 {
		line.Amount = 1
	}

	cart, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(line); i >= 0 {
		cart.Lines[i].Amount += line.Amount
	} else {
		cart.Lines = append(cart.Lines, line)
	}

	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.mirror(ctx, sessionID, line, true)
	if s.events != nil {
		s.events.CartUpdated(ctx, sessionID, "add", line.ProductID, cart)
	}
	return cart, nil
}

// Remove decrements the matching line's amount by one and drops the line
// when it reaches zero. Removing a line that is not in the cart is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	cart, err := s.store.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindLine(line)
	if i < 0 {
		return cart, nil
	}

	cart.Lines[i].Amount--
	if cart.Lines[i].Amount <= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}

	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.mirror(ctx, sessionID, line, false)
	if s.events != nil {
		s.events.CartUpdated(ctx, sessionID, "remove", line.ProductID, cart)
	}
	return cart, nil
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.CartUpdated(ctx, sessionID, "clear", "", &domain.Cart{})
	}
	return nil
}

// mirror forwards the mutation to the backend when the session is logged in.
// Failures are logged and swallowed; the session cart is the source of truth.
func (s *Service) mirror(ctx context.Context, sessionID string, line domain.CartLine, add bool) {
	if s.syncer == nil {
		return
	}
	token, err := s.store.Token(ctx, sessionID)
	if err != nil {
		return
	}

	if add {
		err = s.syncer.SyncCartAdd(ctx, token, line)
	} else {
		err = s.syncer.SyncCartRemove(ctx, token, line)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "cart sync to backend failed",
			slog.String("session_id", sessionID),
			slog.String("product_id", line.ProductID),
			slog.String("error", err.Error()),
		)
	}
}
