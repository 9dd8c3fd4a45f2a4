package controller

import (
	"errors"
	"net/http"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/service"
	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type ChooseRequest struct {
	Path string `json:"path" binding:"required"`
}

type SignInCheckoutRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type ConfirmRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	NotifyViaEmail  bool   `json:"notify_via_email"`
	NotifyViaSMS    bool   `json:"notify_via_sms"`
}

// Begin starts checkout, freezing the cart contents and subtotal
// POST /api/v1/checkout
func (ctrl *CheckoutController) Begin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	sess, err := ctrl.checkoutService.Begin(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cannot check out an empty cart")
		case errors.Is(err, service.ErrCheckoutActive):
			apperrors.Conflict(c, apperrors.CheckoutAlreadyActive, "Checkout already in progress")
		default:
			log.Error("Failed to begin checkout", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.InternalError(c, "Failed to begin checkout")
		}
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// Get returns the current checkout state
// GET /api/v1/checkout
func (ctrl *CheckoutController) Get(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	sess, err := ctrl.checkoutService.Get(sessionID)
	if err != nil {
		apperrors.NotFound(c, apperrors.CheckoutNotActive, "No checkout in progress")
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Choose picks the guest or signup path from the choice step
// POST /api/v1/checkout/choice
func (ctrl *CheckoutController) Choose(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req ChooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	sess, err := ctrl.checkoutService.Choose(sessionID, model.CheckoutPath(req.Path))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutNotActive):
			apperrors.NotFound(c, apperrors.CheckoutNotActive, "No checkout in progress")
		case errors.Is(err, service.ErrInvalidStep):
			apperrors.Conflict(c, apperrors.CheckoutInvalidStep, "Path can only be chosen from the choice step")
		case errors.Is(err, service.ErrInvalidPath):
			apperrors.BadRequest(c, apperrors.CheckoutInvalidPath, "Unknown checkout path")
		default:
			log.Error("Failed to choose checkout path", err, map[string]interface{}{
				"session_id": sessionID,
				"path":       req.Path,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, sess)
}

// SignIn authenticates and submits the order in one step
// POST /api/v1/checkout/signin
func (ctrl *CheckoutController) SignIn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req SignInCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	sess, err := ctrl.checkoutService.SignIn(c.Request.Context(), sessionID, req.Username, req.Password, req.ShippingAddress)
	if err != nil {
		ctrl.respondFlowError(c, log, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Confirm validates the entered details and submits the order
// POST /api/v1/checkout/confirm
func (ctrl *CheckoutController) Confirm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	sess, err := ctrl.checkoutService.Confirm(c.Request.Context(), sessionID, model.CustomerInfo{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		NotifyViaEmail:  req.NotifyViaEmail,
		NotifyViaSMS:    req.NotifyViaSMS,
	})
	if err != nil {
		ctrl.respondFlowError(c, log, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Retry re-submits the frozen payload after a failure
// POST /api/v1/checkout/retry
func (ctrl *CheckoutController) Retry(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	sess, err := ctrl.checkoutService.Retry(c.Request.Context(), sessionID)
	if err != nil {
		ctrl.respondFlowError(c, log, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Back steps to the predecessor state; from the choice step it cancels
// checkout and leaves the cart untouched
// POST /api/v1/checkout/back
func (ctrl *CheckoutController) Back(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	sess, err := ctrl.checkoutService.Back(sessionID)
	if err != nil {
		ctrl.respondFlowError(c, log, sessionID, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Checkout cancelled",
		})
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Cancel abandons checkout without touching the cart
// DELETE /api/v1/checkout
func (ctrl *CheckoutController) Cancel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.checkoutService.Cancel(sessionID); err != nil {
		ctrl.respondFlowError(c, log, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout cancelled",
	})
}

func (ctrl *CheckoutController) respondFlowError(c *gin.Context, log *logger.Logger, sessionID string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, map[string]string{verr.Field: verr.Reason})
	case errors.Is(err, service.ErrCheckoutNotActive):
		apperrors.NotFound(c, apperrors.CheckoutNotActive, "No checkout in progress")
	case errors.Is(err, service.ErrInvalidStep):
		apperrors.Conflict(c, apperrors.CheckoutInvalidStep, "Operation not valid in the current step")
	case errors.Is(err, service.ErrSubmitInFlight):
		apperrors.Conflict(c, apperrors.CheckoutSubmitInFlight, "Submission already in progress")
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid username or password")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "That email is already registered")
	default:
		log.Error("Checkout operation failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "")
	}
}
