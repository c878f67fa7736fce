// Package checkout drives the three-step checkout: delivery, profile, and
// payment. Logged-in sessions skip the profile step; the draft lives in the
// session store and expires if abandoned.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukahub/storefront/internal/backend"
	"github.com/dukahub/storefront/internal/delivery"
	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/internal/event"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

type draftStore interface {
	Draft(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error)
	SaveDraft(ctx context.Context, sessionID string, draft *domain.CheckoutDraft) error
	DeleteDraft(ctx context.Context, sessionID string) error
	Cart(ctx context.Context, sessionID string) (*domain.Cart, error)
	DeleteCart(ctx context.Context, sessionID string) error
	Token(ctx context.Context, sessionID string) (string, error)
	DeliverySelection(ctx context.Context, sessionID string) (*domain.DeliverySelection, error)
	SaveDeliverySelection(ctx context.Context, sessionID string, sel *domain.DeliverySelection) error
}

type checkoutBackend interface {
	Checkout(ctx context.Context, token string, req *backend.CheckoutRequest) (*backend.CheckoutResponse, error)
	AnonymousCheckout(ctx context.Context, req *backend.CheckoutRequest) (*backend.CheckoutResponse, error)
}

type checkoutEvents interface {
	CheckoutSubmitted(ctx context.Context, data event.CheckoutSubmittedData)
	CheckoutFailed(ctx context.Context, data event.CheckoutFailedData)
}

// Service owns checkout drafts and their step transitions.
type Service struct {
	store   draftStore
	backend checkoutBackend
	info    infoSource
	events  checkoutEvents
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a checkout service. events may be nil.
func NewService(store draftStore, b checkoutBackend, info infoSource, events checkoutEvents, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		backend: b,
		info:    info,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Open starts a checkout draft for the session, replacing any existing one.
// Cart mode snapshots the current cart; single mode carries the buy-now item.
func (s *Service) Open(ctx context.Context, sessionID string, mode domain.CheckoutMode, single *domain.BuyNowItem) (*domain.CheckoutDraft, error) {
	draft := &domain.CheckoutDraft{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Mode:      mode,
		Step:      domain.StepDelivery,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}

	switch mode {
	case domain.ModeSingle:
		if single == nil || single.ProductID == "" {
			return nil, apperrors.InvalidInput("buy-now item is required")
		}
		if single.Price < 0 {
			return nil, apperrors.InvalidInput("item price cannot be negative")
		}
		draft.Single = single
	case domain.ModeCart:
		cart, err := s.store.Cart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if len(cart.Lines) == 0 {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		draft.Lines = cart.Lines
	default:
		return nil, apperrors.InvalidInput("unknown checkout mode")
	}

	if _, err := s.store.Token(ctx, sessionID); err == nil {
		draft.Authenticated = true
	}

	if err := s.store.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Current returns the session's active draft, or not found when none exists
// or it expired.
func (s *Service) Current(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	draft, err := s.store.Draft(ctx, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("checkout", sessionID)
	}
	return draft, err
}

// Abandon discards the session's draft.
func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	return s.store.DeleteDraft(ctx, sessionID)
}

// Counties lists the counties served on the given delivery day.
func (s *Service) Counties(ctx context.Context, day domain.DeliveryDay) ([]string, error) {
	if !day.Valid() {
		return nil, apperrors.InvalidInput("delivery day must be sameday or nextday")
	}
	info, err := s.info.CheckoutInfo(ctx)
	if err != nil {
		return nil, err
	}
	return delivery.Counties(info.DeliveryLocations, day), nil
}

// Subcounties lists the subcounties served within a county on the given day.
func (s *Service) Subcounties(ctx context.Context, day domain.DeliveryDay, county string) ([]string, error) {
	if !day.Valid() {
		return nil, apperrors.InvalidInput("delivery day must be sameday or nextday")
	}
	info, err := s.info.CheckoutInfo(ctx)
	if err != nil {
		return nil, err
	}
	return delivery.Subcounties(info.DeliveryLocations, day, county), nil
}

// Couriers lists the courier options for a day, county, and subcounty.
func (s *Service) Couriers(ctx context.Context, day domain.DeliveryDay, county, subcounty string) ([]delivery.CourierOption, error) {
	if !day.Valid() {
		return nil, apperrors.InvalidInput("delivery day must be sameday or nextday")
	}
	info, err := s.info.CheckoutInfo(ctx)
	if err != nil {
		return nil, err
	}
	return delivery.Couriers(info.DeliveryLocations, day, county, subcounty), nil
}

// PaymentOptions lists the tenant's accepted payment methods.
func (s *Service) PaymentOptions(ctx context.Context) ([]domain.PaymentOption, error) {
	info, err := s.info.CheckoutInfo(ctx)
	if err != nil {
		return nil, err
	}
	return info.PaymentOptions, nil
}

// LastDelivery returns the session's remembered delivery choice, if any.
func (s *Service) LastDelivery(ctx context.Context, sessionID string) (*domain.DeliverySelection, error) {
	return s.store.DeliverySelection(ctx, sessionID)
}

// SetDelivery resolves the chosen courier into a quote and advances the
// draft. A courier id missing from the current location list fails with not
// found, keeping the draft on the delivery step.
func (s *Service) SetDelivery(ctx context.Context, sessionID, courierID, specifications string) (*domain.CheckoutDraft, error) {
	draft, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Step != domain.StepDelivery {
		return nil, apperrors.InvalidInput("checkout is past the delivery step")
	}

	info, err := s.info.CheckoutInfo(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := delivery.Resolve(info.DeliveryLocations, courierID, s.now())
	if err != nil {
		return nil, err
	}
	quote.Specifications = specifications

	draft.Delivery = &quote
	if draft.Authenticated {
		draft.Step = domain.StepPayment
	} else {
		draft.Step = domain.StepProfile
	}
	draft.UpdatedAt = s.now().UTC()

	if err := s.store.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetProfile records the buyer's contact details and advances to payment.
// Only anonymous drafts pass through the profile step.
func (s *Service) SetProfile(ctx context.Context, sessionID string, contact *domain.ContactProfile) (*domain.CheckoutDraft, error) {
	draft, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Step != domain.StepProfile {
		return nil, apperrors.InvalidInput("checkout is not on the profile step")
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	draft.Profile = contact
	draft.Step = domain.StepPayment
	draft.UpdatedAt = s.now().UTC()

	if err := s.store.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Back moves the draft one step backwards: payment returns to profile (or
// delivery for logged-in sessions), profile returns to delivery.
func (s *Service) Back(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	draft, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch draft.Step {
	case domain.StepPayment:
		if draft.Authenticated {
			draft.Step = domain.StepDelivery
		} else {
			draft.Step = domain.StepProfile
		}
	case domain.StepProfile:
		draft.Step = domain.StepDelivery
	default:
		return nil, apperrors.InvalidInput("cannot go back from the current step")
	}
	draft.SubmitError = ""
	draft.UpdatedAt = s.now().UTC()

	if err := s.store.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit validates the payment details and sends the order to the backend.
// On rejection the draft stays on the payment step with the error recorded
// so the buyer can correct and retry.
func (s *Service) Submit(ctx context.Context, sessionID string, payment *domain.PaymentDetails) (*domain.CheckoutDraft, error) {
	draft, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Step != domain.StepPayment {
		return nil, apperrors.InvalidInput("checkout is not on the payment step")
	}
	if draft.Delivery == nil {
		return nil, apperrors.InvalidInput("delivery details are missing")
	}
	if !draft.Authenticated && draft.Profile == nil {
		return nil, apperrors.InvalidInput("contact details are missing")
	}
	if err := validatePayment(payment); err != nil {
		return nil, err
	}

	draft.Payment = payment
	req := s.buildRequest(draft)

	var resp *backend.CheckoutResponse
	if draft.Authenticated {
		token, tokenErr := s.store.Token(ctx, sessionID)
		if tokenErr != nil {
			return nil, apperrors.Unauthorized("session is no longer logged in")
		}
		resp, err = s.backend.Checkout(ctx, token, req)
	} else {
		req.Name = draft.Profile.Name
		req.Phone = draft.Profile.Phone
		req.Email = draft.Profile.Email
		resp, err = s.backend.AnonymousCheckout(ctx, req)
	}

	if err != nil {
		draft.SubmitError = submitErrorMessage(err)
		draft.UpdatedAt = s.now().UTC()
		if saveErr := s.store.SaveDraft(ctx, sessionID, draft); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to save draft after rejected submit",
				slog.String("session_id", sessionID),
				slog.String("error", saveErr.Error()),
			)
		}
		if s.events != nil {
			s.events.CheckoutFailed(ctx, event.CheckoutFailedData{
				SessionID: sessionID,
				Mode:      string(draft.Mode),
				Reason:    draft.SubmitError,
			})
		}
		return draft, err
	}

	draft.Step = domain.StepSubmitted
	draft.SubmitError = ""
	draft.UpdatedAt = s.now().UTC()

	if err := s.store.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, err
	}

	// Remember the delivery choice and empty the cart. Neither failure
	// undoes an order the backend already accepted.
	sel := &domain.DeliverySelection{
		County:         draft.Delivery.County,
		Subcounty:      draft.Delivery.Subcounty,
		CourierID:      draft.Delivery.CourierID,
		Specifications: draft.Delivery.Specifications,
	}
	if err := s.store.SaveDeliverySelection(ctx, sessionID, sel); err != nil {
		s.logger.WarnContext(ctx, "failed to remember delivery selection",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	if draft.Mode == domain.ModeCart {
		if err := s.store.DeleteCart(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear cart after checkout",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.events != nil {
		itemCount := 1
		if draft.Mode == domain.ModeCart {
			cart := domain.Cart{Lines: draft.Lines}
			itemCount = cart.TotalCount()
		}
		s.events.CheckoutSubmitted(ctx, event.CheckoutSubmittedData{
			SessionID: sessionID,
			OrderID:   resp.OrderID,
			Mode:      string(draft.Mode),
			Total:     draft.GrandTotal(),
			ItemCount: itemCount,
			Courier:   draft.Delivery.Courier,
		})
	}

	s.logger.InfoContext(ctx, "checkout submitted",
		slog.String("session_id", sessionID),
		slog.String("order_id", resp.OrderID),
		slog.Int64("total", draft.GrandTotal()),
	)
	return draft, nil
}

func (s *Service) buildRequest(draft *domain.CheckoutDraft) *backend.CheckoutRequest {
	req := &backend.CheckoutRequest{
		Code:             draft.Payment.Code,
		Mode:             draft.Payment.Mode,
		Total:            draft.GrandTotal(),
		Courier:          draft.Delivery.CourierID,
		Specifications:   draft.Delivery.Specifications,
		FullDeliveryTime: draft.Delivery.ArrivalText,
	}
	if draft.Mode == domain.ModeSingle {
		req.Single = draft.Single
	} else {
		req.Cart = draft.Lines
	}
	return req
}

// submitErrorMessage keeps backend rejection reasons readable for the buyer
// while hiding transport noise.
func submitErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "could not submit your order, please try again"
}
