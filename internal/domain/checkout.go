package domain

import (
	"strings"
	"time"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// Checkout steps. The flow is linear apart from payment -> shipping.
const (
	StepShipping   = "shipping"
	StepPayment    = "payment"
	StepProcessing = "processing"
	StepSuccess    = "success"
	StepClosed     = "closed"
)

// ShippingDetails is the input of the shipping step.
type ShippingDetails struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
}

func (d ShippingDetails) trimmed() ShippingDetails {
	return ShippingDetails{
		FullName: strings.TrimSpace(d.FullName),
		Email:    strings.TrimSpace(d.Email),
		Address:  strings.TrimSpace(d.Address),
		City:     strings.TrimSpace(d.City),
		Zip:      strings.TrimSpace(d.Zip),
	}
}

// CardDetails is the input of the payment step.
type CardDetails struct {
	Number string `json:"number" validate:"required,card_number"`
	Expiry string `json:"expiry" validate:"required,card_expiry"`
	CVC    string `json:"cvc" validate:"required,card_cvc"`
	Name   string `json:"name" validate:"required"`
}

// formatted applies the same formatting the card form applies on input.
func (c CardDetails) formatted() CardDetails {
	return CardDetails{
		Number: FormatCardNumber(c.Number),
		Expiry: FormatExpiry(c.Expiry),
		CVC:    strings.TrimSpace(c.CVC),
		Name:   strings.TrimSpace(c.Name),
	}
}

// Last4 returns the last four card digits, or "" when fewer are present.
func (c CardDetails) Last4() string {
	digits := digitsOnly(c.Number, cardNumberDigits)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

// CheckoutSession is one pass through the checkout flow. Items and Totals are
// a snapshot of the cart taken when the session opens and never change.
type CheckoutSession struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Step      string          `json:"step"`
	Shipping  ShippingDetails `json:"shipping"`
	Card      CardDetails     `json:"-"`
	CardLast4 string          `json:"card_last4,omitempty"`
	Items     Cart            `json:"items"`
	Totals    Totals          `json:"totals"`
	OrderRef  string          `json:"order_ref,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewCheckoutSession opens a session in the shipping step over a copy of cart.
func NewCheckoutSession(id, sessionID string, cart Cart, now time.Time) (*CheckoutSession, error) {
	if len(cart) == 0 {
		return nil, apperrors.InvalidInput("cannot check out an empty cart")
	}

	items := make(Cart, len(cart))
	for i, item := range cart {
		items[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}

	return &CheckoutSession{
		ID:        id,
		SessionID: sessionID,
		Step:      StepShipping,
		Items:     items,
		Totals:    items.Totals(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *CheckoutSession) advance(step string) {
	s.Step = step
	s.UpdatedAt = time.Now().UTC()
}

// SubmitShipping moves shipping -> payment. A failed guard returns a
// *validator.ValidationError and leaves the session untouched.
func (s *CheckoutSession) SubmitShipping(d ShippingDetails) error {
	if s.Step != StepShipping {
		return apperrors.InvalidTransition(s.Step, "submit shipping")
	}
	d = d.trimmed()
	if err := validator.Validate(d); err != nil {
		return err
	}
	s.Shipping = d
	s.advance(StepPayment)
	return nil
}

// BackToShipping moves payment -> shipping, keeping the shipping details.
func (s *CheckoutSession) BackToShipping() error {
	if s.Step != StepPayment {
		return apperrors.InvalidTransition(s.Step, "go back to shipping")
	}
	s.advance(StepShipping)
	return nil
}

// SubmitPayment moves payment -> processing once the card passes its guard.
func (s *CheckoutSession) SubmitPayment(c CardDetails) error {
	if s.Step != StepPayment {
		return apperrors.InvalidTransition(s.Step, "submit payment")
	}
	c = c.formatted()
	if err := validator.Validate(c); err != nil {
		return err
	}
	s.Card = c
	s.CardLast4 = c.Last4()
	s.advance(StepProcessing)
	return nil
}

// Settle moves processing -> success. Only the settlement timer calls it.
func (s *CheckoutSession) Settle(orderRef string) error {
	if s.Step != StepProcessing {
		return apperrors.InvalidTransition(s.Step, "settle")
	}
	s.OrderRef = orderRef
	s.advance(StepSuccess)
	return nil
}

// Cancel closes a session that has not reached processing.
func (s *CheckoutSession) Cancel() error {
	if s.Step != StepShipping && s.Step != StepPayment {
		return apperrors.InvalidTransition(s.Step, "cancel")
	}
	s.advance(StepClosed)
	return nil
}

// Dismiss closes a successful session.
func (s *CheckoutSession) Dismiss() error {
	if s.Step != StepSuccess {
		return apperrors.InvalidTransition(s.Step, "dismiss")
	}
	s.advance(StepClosed)
	return nil
}

// Snapshot returns a copy safe to hand outside the owning lock.
func (s *CheckoutSession) Snapshot() CheckoutSession {
	out := *s
	out.Items = make(Cart, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}
