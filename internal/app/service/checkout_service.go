package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
	"github.com/google/uuid"
)

var (
	ErrCheckoutNotActive = errors.New("no checkout in progress")
	ErrCheckoutActive    = errors.New("checkout already in progress")
	ErrInvalidStep       = errors.New("operation not valid in current step")
	ErrInvalidPath       = errors.New("unknown checkout path")
	ErrSubmitInFlight    = errors.New("submission already in progress")
)

// ValidationError names the first form field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OrderGateway is the slice of the store API the checkout flow needs.
// Satisfied by *storeapi.Client.
type OrderGateway interface {
	SubmitOrder(ctx context.Context, req storeapi.OrderRequest) (*model.OrderConfirmation, error)
}

// CheckoutService drives the checkout flow as an explicit state machine:
// choice, then guest or signup details (or direct sign-in), then a single
// submission, ending in success or a retryable failure. The cart lines
// and subtotal are frozen when checkout begins.
type CheckoutService interface {
	Begin(sessionID string) (*model.CheckoutSession, error)
	Get(sessionID string) (*model.CheckoutSession, error)
	Choose(sessionID string, path model.CheckoutPath) (*model.CheckoutSession, error)
	SignIn(ctx context.Context, sessionID, username, password, shippingAddress string) (*model.CheckoutSession, error)
	Confirm(ctx context.Context, sessionID string, customer model.CustomerInfo) (*model.CheckoutSession, error)
	Retry(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	Back(sessionID string) (*model.CheckoutSession, error)
	Cancel(sessionID string) error
}

type checkoutService struct {
	cartService    CartService
	authService    AuthService
	sessionRepo    repository.SessionRepository
	gateway        OrderGateway
	minPasswordLen int
	identityTTL    time.Duration

	mu       sync.Mutex
	sessions map[string]*model.CheckoutSession
}

func NewCheckoutService(
	cartService CartService,
	authService AuthService,
	sessionRepo repository.SessionRepository,
	gateway OrderGateway,
	minPasswordLen int,
	identityTTL time.Duration,
) CheckoutService {
	return &checkoutService{
		cartService:    cartService,
		authService:    authService,
		sessionRepo:    sessionRepo,
		gateway:        gateway,
		minPasswordLen: minPasswordLen,
		identityTTL:    identityTTL,
		sessions:       make(map[string]*model.CheckoutSession),
	}
}

func (s *checkoutService) Begin(sessionID string) (*model.CheckoutSession, error) {
	cart, err := s.cartService.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[sessionID]; ok && existing.Step != model.StepSuccess {
		return nil, ErrCheckoutActive
	}

	sess := &model.CheckoutSession{
		SessionID:      sessionID,
		Step:           model.StepChoice,
		Cart:           cart.Clone(),
		Subtotal:       cart.Subtotal(),
		IdempotencyKey: uuid.NewString(),
		CreatedAt:      time.Now(),
	}
	s.sessions[sessionID] = sess

	logger.Info("Checkout started", map[string]interface{}{
		"session_id": sessionID,
		"lines":      len(sess.Cart.Lines),
		"subtotal":   sess.Subtotal,
	})
	return snapshotOf(sess), nil
}

func (s *checkoutService) Get(sessionID string) (*model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrCheckoutNotActive
	}
	return snapshotOf(sess), nil
}

func (s *checkoutService) Choose(sessionID string, path model.CheckoutPath) (*model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrCheckoutNotActive
	}
	if sess.Step != model.StepChoice {
		return nil, ErrInvalidStep
	}

	switch path {
	case model.PathGuest:
		sess.Step = model.StepGuestDetails
	case model.PathSignup:
		sess.Step = model.StepSignupDetails
	default:
		// sign-in goes through SignIn, which authenticates first
		return nil, ErrInvalidPath
	}
	sess.Path = path

	return snapshotOf(sess), nil
}

// SignIn authenticates from the choice step and submits immediately with
// the account's contact details plus the shipping address from the form.
func (s *checkoutService) SignIn(ctx context.Context, sessionID, username, password, shippingAddress string) (*model.CheckoutSession, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, &ValidationError{Field: "shipping_address", Reason: "must not be empty"}
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCheckoutNotActive
	}
	if sess.Step != model.StepChoice {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	s.mu.Unlock()

	identity, err := s.authService.Login(ctx, sessionID, username, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok = s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCheckoutNotActive
	}
	if sess.Step == model.StepSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	sess.Path = model.PathSignin
	sess.Customer = model.CustomerInfo{
		Name:            identity.User.Username,
		Email:           identity.User.Email,
		Phone:           identity.User.Phone,
		ShippingAddress: shippingAddress,
		NotifyViaEmail:  true,
	}
	sess.Step = model.StepSubmitting
	req := s.orderRequestLocked(sess)
	s.mu.Unlock()

	return s.dispatch(ctx, sessionID, req)
}

// Confirm validates the entered details and submits the order. On the
// signup path the account is created first; a signup failure returns the
// flow to the details step with the form intact.
func (s *checkoutService) Confirm(ctx context.Context, sessionID string, customer model.CustomerInfo) (*model.CheckoutSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCheckoutNotActive
	}
	if sess.Step == model.StepSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if sess.Step != model.StepGuestDetails && sess.Step != model.StepSignupDetails {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}

	if verr := validateCustomer(customer, sess.Path, s.minPasswordLen); verr != nil {
		s.mu.Unlock()
		logger.Warn("Checkout confirm blocked by validation", map[string]interface{}{
			"session_id": sessionID,
			"field":      verr.Field,
		})
		return nil, verr
	}

	sess.Customer = customer
	detailsStep := sess.Step
	isSignup := sess.Path == model.PathSignup
	sess.Step = model.StepSubmitting
	req := s.orderRequestLocked(sess)
	s.mu.Unlock()

	if isSignup {
		_, err := s.authService.Signup(ctx, sessionID, storeapi.SignupRequest{
			Username: customer.Name,
			Email:    customer.Email,
			Password: customer.Password,
			Phone:    customer.Phone,
		})
		if err != nil {
			s.mu.Lock()
			if sess, ok := s.sessions[sessionID]; ok && sess.Step == model.StepSubmitting {
				sess.Step = detailsStep
			}
			s.mu.Unlock()
			return nil, err
		}
	}

	return s.dispatch(ctx, sessionID, req)
}

// Retry re-submits the frozen payload after a failure. The idempotency
// key minted at Begin is reused so the store can collapse duplicates.
func (s *checkoutService) Retry(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCheckoutNotActive
	}
	if sess.Step == model.StepSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if sess.Step != model.StepFailure {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	sess.Step = model.StepSubmitting
	sess.FailureReason = ""
	req := s.orderRequestLocked(sess)
	s.mu.Unlock()

	logger.Info("Retrying order submission", map[string]interface{}{
		"session_id": sessionID,
	})
	return s.dispatch(ctx, sessionID, req)
}

// Back steps to the predecessor state. From the choice step it cancels
// checkout entirely and returns nil. The cart is never touched.
func (s *checkoutService) Back(sessionID string) (*model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrCheckoutNotActive
	}

	switch sess.Step {
	case model.StepChoice:
		delete(s.sessions, sessionID)
		return nil, nil
	case model.StepGuestDetails, model.StepSignupDetails:
		sess.Step = model.StepChoice
		sess.Path = ""
	case model.StepFailure:
		sess.FailureReason = ""
		switch sess.Path {
		case model.PathGuest:
			sess.Step = model.StepGuestDetails
		case model.PathSignup:
			sess.Step = model.StepSignupDetails
		default:
			sess.Step = model.StepChoice
			sess.Path = ""
		}
	default:
		return nil, ErrInvalidStep
	}

	return snapshotOf(sess), nil
}

func (s *checkoutService) Cancel(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrCheckoutNotActive
	}
	if sess.Step == model.StepSubmitting {
		return ErrSubmitInFlight
	}

	delete(s.sessions, sessionID)
	logger.Info("Checkout cancelled", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

// dispatch performs the single gateway call for an accepted submission
// and applies the outcome. Callers must have already moved the session
// into the submitting step; that check-and-set is what guarantees at
// most one in-flight call per session.
func (s *checkoutService) dispatch(ctx context.Context, sessionID string, req storeapi.OrderRequest) (*model.CheckoutSession, error) {
	confirmation, err := s.gateway.SubmitOrder(ctx, req)

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCheckoutNotActive
	}

	if err != nil {
		sess.Step = model.StepFailure
		sess.FailureReason = failureReason(err)
		result := snapshotOf(sess)
		s.mu.Unlock()

		logger.Warn("Order submission failed", map[string]interface{}{
			"session_id": sessionID,
			"reason":     result.FailureReason,
		})
		return result, nil
	}

	sess.Step = model.StepSuccess
	sess.Result = confirmation
	wasGuest := sess.Path == model.PathGuest
	result := snapshotOf(sess)
	s.mu.Unlock()

	logger.Info("Order submitted successfully", map[string]interface{}{
		"session_id":      sessionID,
		"order_number":    confirmation.OrderNumber,
		"tracking_number": confirmation.TrackingNumber,
	})

	// Entering success clears the cart and, for guests, upgrades the
	// session identity so the confirmation page can show order details.
	if err := s.cartService.Clear(sessionID); err != nil {
		logger.Warn("Failed to clear cart after order", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	if wasGuest {
		s.promoteGuest(sessionID)
	}

	return result, nil
}

func (s *checkoutService) promoteGuest(sessionID string) {
	identity, err := s.sessionRepo.GetIdentity(sessionID)
	if err != nil || identity.Kind != model.IdentityAnonymous {
		return
	}
	guest := &model.Identity{Kind: model.IdentityGuest}
	if err := s.sessionRepo.SaveIdentity(sessionID, guest, s.identityTTL); err != nil {
		logger.Warn("Failed to record guest identity", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// orderRequestLocked builds the gateway payload from the frozen checkout
// state. Caller must hold s.mu.
func (s *checkoutService) orderRequestLocked(sess *model.CheckoutSession) storeapi.OrderRequest {
	items := make([]storeapi.OrderItem, 0, len(sess.Cart.Lines))
	for _, line := range sess.Cart.Lines {
		items = append(items, storeapi.OrderItem{
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
		})
	}
	return storeapi.OrderRequest{
		CustomerName:    sess.Customer.Name,
		CustomerEmail:   sess.Customer.Email,
		CustomerPhone:   sess.Customer.Phone,
		ShippingAddress: sess.Customer.ShippingAddress,
		Items:           items,
		TotalAmount:     sess.Subtotal,
		NotifyViaEmail:  sess.Customer.NotifyViaEmail,
		NotifyViaSMS:    sess.Customer.NotifyViaSMS,
		IsGuest:         sess.Path == model.PathGuest,
		IdempotencyKey:  sess.IdempotencyKey,
	}
}

func validateCustomer(customer model.CustomerInfo, path model.CheckoutPath, minPasswordLen int) *ValidationError {
	if strings.TrimSpace(customer.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	email := strings.TrimSpace(customer.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "must not be empty"}
	}
	if strings.TrimSpace(customer.ShippingAddress) == "" {
		return &ValidationError{Field: "shipping_address", Reason: "must not be empty"}
	}
	if path == model.PathSignup {
		if len(customer.Password) < minPasswordLen {
			return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
		}
		if customer.Password != customer.PasswordConfirm {
			return &ValidationError{Field: "password_confirm", Reason: "passwords do not match"}
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, storeapi.ErrOrderRejected):
		return strings.TrimPrefix(err.Error(), storeapi.ErrOrderRejected.Error()+": ")
	case errors.Is(err, storeapi.ErrNetworkError):
		return "Could not reach the store. Check your connection and try again."
	default:
		return "The store returned an unexpected response. Please try again."
	}
}

// snapshotOf returns a detached copy safe to hand to controllers.
func snapshotOf(sess *model.CheckoutSession) *model.CheckoutSession {
	copied := *sess
	copied.Cart = sess.Cart.Clone()
	return &copied
}
