package entity

import "errors"

var (
	ErrInvalidSignature     = errors.New("invalid payment webhook signature")
	ErrPaymentNotConfigured = errors.New("payment provider is not configured")

	// ErrMalformedEvent marks a verified event whose body could not be decoded.
	ErrMalformedEvent = errors.New("malformed payment event")
)

// EventCheckoutCompleted is the provider event that confirms a paid checkout.
const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutLineItem struct {
	Name      string
	Image     string
	UnitPrice float64
	Quantity  int
}

type CheckoutRequest struct {
	OrderID       string
	CustomerEmail string
	Items         []CheckoutLineItem
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentEvent is a verified webhook event reduced to what order processing
// needs. The checkout fields are only set for checkout events.
type PaymentEvent struct {
	ID              string
	Type            string
	OrderID         string
	SessionID       string
	PaymentIntentID string
	Status          string
	CustomerEmail   string
}
