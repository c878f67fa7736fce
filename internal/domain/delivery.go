package domain

// DeliveryDay selects which day flag a delivery location must carry.
type DeliveryDay string

const (
	DeliverySameday DeliveryDay = "sameday"
	DeliveryNextday DeliveryDay = "nextday"
)

// Valid reports whether the day is one of the two supported values.
func (d DeliveryDay) Valid() bool {
	return d == DeliverySameday || d == DeliveryNextday
}

// DeliveryLocation is a read-only reference record describing one courier
// option for one county/subcounty, fetched once per checkout session.
type DeliveryLocation struct {
	ID            string `json:"id"`
	County        string `json:"county"`
	Subcounty     string `json:"subcounty,omitempty"`
	Courier       string `json:"courier"`
	Description   string `json:"description,omitempty"`
	Price         int64  `json:"price"`
	PayOnDelivery bool   `json:"pay_on_delivery,omitempty"`
	Sameday       bool   `json:"sameday,omitempty"`
	Nextday       bool   `json:"nextday,omitempty"`
	// TransitMinutes is the courier's transit time; 0 means unknown.
	TransitMinutes int `json:"time,omitempty"`
	WeightLimit    int `json:"weight_limit,omitempty"`
}

// MatchesDay reports whether the location serves the given delivery day.
func (l DeliveryLocation) MatchesDay(day DeliveryDay) bool {
	switch day {
	case DeliverySameday:
		return l.Sameday
	case DeliveryNextday:
		return l.Nextday
	default:
		return false
	}
}

// DeliverySelection is the last-used delivery choice persisted per session so
// the next checkout can be pre-filled.
type DeliverySelection struct {
	County         string `json:"county"`
	Subcounty      string `json:"subcounty"`
	CourierID      string `json:"courier_id"`
	Specifications string `json:"specifications,omitempty"`
}

// PaymentOption is one of the tenant's accepted payment methods.
type PaymentOption struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	TillNumber    string `json:"till_number,omitempty"`
	PaybillNumber string `json:"paybill_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	StoreNumber   string `json:"store_number,omitempty"`
}

// PaymentModeOnDelivery is the reserved payment mode that defers collection
// to the courier; it requires no transaction code at submission.
const PaymentModeOnDelivery = "Payment on delivery"

// CheckoutInfo bundles the tenant's checkout reference data.
type CheckoutInfo struct {
	PaymentOptions    []PaymentOption    `json:"payment_options"`
	DeliveryLocations []DeliveryLocation `json:"delivery_locations"`
	Counties          []string           `json:"counties,omitempty"`
}
