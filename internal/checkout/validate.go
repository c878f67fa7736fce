package checkout

import (
	"regexp"
	"strings"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+254|0)[0-9]{9}$`)
)

// validateContact checks the profile-step contact details: a non-empty name,
// a Kenyan phone number, and a plausible email address.
func validateContact(c *domain.ContactProfile) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if !phonePattern.MatchString(c.Phone) {
		return apperrors.InvalidInput("phone must start with +254 or 0 followed by 9 digits")
	}
	if !emailPattern.MatchString(c.Email) {
		return apperrors.InvalidInput("email address is invalid")
	}
	return nil
}

// validatePayment checks the payment step: a transaction code is required for
// every mode except payment on delivery.
func validatePayment(p *domain.PaymentDetails) error {
	if strings.TrimSpace(p.Mode) == "" {
		return apperrors.InvalidInput("payment mode is required")
	}
	if p.Mode != domain.PaymentModeOnDelivery && strings.TrimSpace(p.Code) == "" {
		return apperrors.InvalidInput("transaction code is required")
	}
	return nil
}
