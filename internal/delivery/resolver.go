// Package delivery narrows the tenant's delivery locations down to a single
// courier quote through a cascade of filters: delivery day, county,
// subcounty, then courier.
package delivery

import (
	"time"

	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

// arrivalLayout renders the estimated arrival like "3:04 PM Mon Jan 02 2006".
const arrivalLayout = "3:04 PM Mon Jan 02 2006"

// Counties returns the distinct counties served on the given day, in order
// of first appearance.
func Counties(locs []domain.DeliveryLocation, day domain.DeliveryDay) []string {
	seen := make(map[string]struct{})
	var counties []string
	for _, loc := range locs {
		if !loc.MatchesDay(day) {
			continue
		}
		if _, ok := seen[loc.County]; ok {
			continue
		}
		seen[loc.County] = struct{}{}
		counties = append(counties, loc.County)
	}
	return counties
}

// Subcounties returns the distinct non-empty subcounties served on the given
// day within the county, in order of first appearance.
func Subcounties(locs []domain.DeliveryLocation, day domain.DeliveryDay, county string) []string {
	seen := make(map[string]struct{})
	var subcounties []string
	for _, loc := range locs {
		if !loc.MatchesDay(day) || loc.County != county || loc.Subcounty == "" {
			continue
		}
		if _, ok := seen[loc.Subcounty]; ok {
			continue
		}
		seen[loc.Subcounty] = struct{}{}
		subcounties = append(subcounties, loc.Subcounty)
	}
	return subcounties
}

// CourierOption is one selectable courier with a display label.
type CourierOption struct {
	ID            string `json:"id"`
	Courier       string `json:"courier"`
	Label         string `json:"label"`
	Price         int64  `json:"price"`
	PayOnDelivery bool   `json:"pay_on_delivery"`
}

// Couriers returns the courier options serving the given day, county, and
// subcounty. Labels include the description and a pay-on-delivery marker.
func Couriers(locs []domain.DeliveryLocation, day domain.DeliveryDay, county, subcounty string) []CourierOption {
	var options []CourierOption
	for _, loc := range locs {
		if !loc.MatchesDay(day) || loc.County != county || loc.Subcounty != subcounty {
			continue
		}
		options = append(options, CourierOption{
			ID:            loc.ID,
			Courier:       loc.Courier,
			Label:         label(loc),
			Price:         loc.Price,
			PayOnDelivery: loc.PayOnDelivery,
		})
	}
	return options
}

func label(loc domain.DeliveryLocation) string {
	l := loc.Courier
	if loc.Description != "" {
		l += " - " + loc.Description
	}
	if loc.PayOnDelivery {
		l += " (Pay on delivery)"
	}
	return l
}

// Resolve looks up the chosen courier by id and produces the delivery quote.
// A courier id that no longer exists in the location list yields a not-found
// error so the caller can force the buyer back to the delivery step. A
// location without a transit time gets no arrival estimate.
func Resolve(locs []domain.DeliveryLocation, courierID string, now time.Time) (domain.DeliveryQuote, error) {
	for _, loc := range locs {
		if loc.ID != courierID {
			continue
		}
		quote := domain.DeliveryQuote{
			CourierID:     loc.ID,
			Courier:       loc.Courier,
			Cost:          loc.Price,
			PayOnDelivery: loc.PayOnDelivery,
			County:        loc.County,
			Subcounty:     loc.Subcounty,
		}
		if loc.TransitMinutes > 0 {
			arrival := now.Add(time.Duration(loc.TransitMinutes) * time.Minute)
			quote.ArrivalAt = arrival
			quote.ArrivalText = arrival.Format(arrivalLayout)
		}
		return quote, nil
	}
	return domain.DeliveryQuote{}, apperrors.NotFound("delivery location", courierID)
}
