package controller

import (
	"net/http"
	"time"

	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/frecha/iotech-storefront/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionController struct {
	secret      string
	tokenExpiry time.Duration
}

func NewSessionController(secret string, tokenExpiry time.Duration) *SessionController {
	return &SessionController{
		secret:      secret,
		tokenExpiry: tokenExpiry,
	}
}

// CreateSession mints a new shopper session token. The token only
// carries a session id; cart and identity state live server-side.
// POST /api/v1/session
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID := uuid.NewString()
	token, err := util.GenerateSessionToken(sessionID, ctrl.secret, ctrl.tokenExpiry)
	if err != nil {
		log.Error("Failed to mint session token", err, nil)
		apperrors.InternalError(c, "Failed to create session")
		return
	}

	log.Info("Shopper session created", map[string]interface{}{
		"session_id": sessionID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"token":      token,
		"expires_in": int(ctrl.tokenExpiry.Seconds()),
	})
}
