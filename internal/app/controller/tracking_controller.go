package controller

import (
	"errors"
	"net/http"

	"github.com/frecha/iotech-storefront/internal/app/service"
	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TrackingController struct {
	trackingService service.TrackingService
}

func NewTrackingController(trackingService service.TrackingService) *TrackingController {
	return &TrackingController{
		trackingService: trackingService,
	}
}

// Track looks up an order's status timeline
// GET /api/v1/tracking/:number
func (ctrl *TrackingController) Track(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	number := c.Param("number")
	info, err := ctrl.trackingService.Track(c.Request.Context(), sessionID, number)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrackingEmpty):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Tracking number is required")
		case errors.Is(err, service.ErrTrackingNotFound):
			apperrors.NotFound(c, apperrors.TrackingNotFound, "No order found for that tracking number")
		default:
			log.Error("Tracking lookup failed", err, map[string]interface{}{
				"session_id":      sessionID,
				"tracking_number": number,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Could not reach the store")
		}
		return
	}

	c.JSON(http.StatusOK, info)
}

// Recent returns the session's recent tracking lookups, newest first
// GET /api/v1/tracking
func (ctrl *TrackingController) Recent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	numbers, err := ctrl.trackingService.Recent(sessionID)
	if err != nil {
		log.Error("Failed to load recent searches", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to load recent searches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": numbers,
	})
}
