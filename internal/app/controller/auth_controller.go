package controller

import (
	"errors"
	"net/http"

	"github.com/frecha/iotech-storefront/internal/app/service"
	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

// Login signs the session in against the upstream store
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	identity, err := ctrl.authService.Login(c.Request.Context(), sessionID, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid username or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Could not reach the store")
		return
	}

	c.JSON(http.StatusOK, identity)
}

// Signup creates an account upstream and signs the session in
// POST /api/v1/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	identity, err := ctrl.authService.Signup(c.Request.Context(), sessionID, storeapi.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "That email is already registered")
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Signup was refused by the store")
		default:
			log.Error("Signup failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Could not reach the store")
		}
		return
	}

	c.JSON(http.StatusCreated, identity)
}

// Logout drops the session back to anonymous
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.authService.Logout(c.Request.Context(), sessionID); err != nil {
		log.Error("Logout failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out",
	})
}

// Me returns the session's current identity
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	identity, err := ctrl.authService.CurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to resolve identity", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to resolve identity")
		return
	}

	c.JSON(http.StatusOK, identity)
}
