package model

import "time"

// CheckoutStep is the explicit state of the checkout flow. Transitions
// are owned by the checkout service; controllers never compare raw
// strings from the client against these.
type CheckoutStep string

const (
	StepChoice        CheckoutStep = "choice"
	StepGuestDetails  CheckoutStep = "guest_details"
	StepSignupDetails CheckoutStep = "signup_details"
	StepSubmitting    CheckoutStep = "submitting"
	StepSuccess       CheckoutStep = "success"
	StepFailure       CheckoutStep = "failure"
)

// CheckoutPath records how the shopper chose to complete the order.
type CheckoutPath string

const (
	PathGuest  CheckoutPath = "guest"
	PathSignup CheckoutPath = "signup"
	PathSignin CheckoutPath = "signin"
)

// CustomerInfo carries the contact fields entered during checkout. The
// password fields are only populated on the signup path and are never
// stored past the session.
type CustomerInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	Password        string `json:"-"`
	PasswordConfirm string `json:"-"`
	NotifyViaEmail  bool   `json:"notify_via_email"`
	NotifyViaSMS    bool   `json:"notify_via_sms"`
}

// CheckoutSession is the per-shopper checkout state. Created when
// checkout begins, destroyed on success or explicit cancellation. The
// cart lines and subtotal are frozen at Begin time.
type CheckoutSession struct {
	SessionID      string            `json:"session_id"`
	Step           CheckoutStep      `json:"step"`
	Path           CheckoutPath      `json:"path,omitempty"`
	Cart           Cart              `json:"cart"`
	Subtotal       float64           `json:"subtotal"`
	Customer       CustomerInfo      `json:"customer"`
	Result         *OrderConfirmation `json:"result,omitempty"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	IdempotencyKey string            `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
}
