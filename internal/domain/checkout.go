package domain

import "time"

// CheckoutStep identifies the active step of a checkout draft.
type CheckoutStep string

const (
	StepDelivery  CheckoutStep = "delivery"
	StepProfile   CheckoutStep = "profile"
	StepPayment   CheckoutStep = "payment"
	StepSubmitted CheckoutStep = "submitted"
)

// CheckoutMode distinguishes a whole-cart checkout from a single-product
// buy-now checkout.
type CheckoutMode string

const (
	ModeCart   CheckoutMode = "cart"
	ModeSingle CheckoutMode = "single"
)

// BuyNowItem captures the product being bought directly, bypassing the cart.
type BuyNowItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	SelectedOption string `json:"selected_option,omitempty"`
	CouponName     string `json:"coupon_name,omitempty"`
}

// DeliveryQuote is the resolved cost and arrival estimate for a chosen
// courier, computed when the delivery step is completed.
type DeliveryQuote struct {
	CourierID      string    `json:"courier_id"`
	Courier        string    `json:"courier"`
	Cost           int64     `json:"cost"`
	PayOnDelivery  bool      `json:"pay_on_delivery"`
	ArrivalAt      time.Time `json:"arrival_at"`
	ArrivalText    string    `json:"arrival_text"`
	County         string    `json:"county"`
	Subcounty      string    `json:"subcounty"`
	Specifications string    `json:"specifications,omitempty"`
}

// ContactProfile is the buyer's contact details collected on the profile
// step for anonymous checkouts.
type ContactProfile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// PaymentDetails is the buyer's payment choice collected on the payment step.
type PaymentDetails struct {
	Mode string `json:"mode"`
	Code string `json:"code,omitempty"`
}

// CheckoutDraft is the in-progress checkout for one session. It moves
// through delivery, profile, and payment, and terminates at submitted.
// Authenticated sessions skip the profile step.
type CheckoutDraft struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Mode          CheckoutMode    `json:"mode"`
	Step          CheckoutStep    `json:"step"`
	Single        *BuyNowItem     `json:"single,omitempty"`
	Lines         []CartLine      `json:"lines,omitempty"`
	Delivery      *DeliveryQuote  `json:"delivery,omitempty"`
	Profile       *ContactProfile `json:"profile,omitempty"`
	Payment       *PaymentDetails `json:"payment,omitempty"`
	Authenticated bool            `json:"authenticated"`
	SubmitError   string          `json:"submit_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemsTotal returns the merchandise total before delivery, either the
// buy-now unit price or the cart sum.
func (d *CheckoutDraft) ItemsTotal() int64 {
	if d.Mode == ModeSingle && d.Single != nil {
		return d.Single.Price
	}
	cart := Cart{Lines: d.Lines}
	return cart.TotalPrice()
}

// GrandTotal returns the merchandise total plus the resolved delivery cost.
func (d *CheckoutDraft) GrandTotal() int64 {
	total := d.ItemsTotal()
	if d.Delivery != nil {
		total += d.Delivery.Cost
	}
	return total
}

// Submitted reports whether the draft reached its terminal step.
func (d *CheckoutDraft) Submitted() bool {
	return d.Step == StepSubmitted
}
