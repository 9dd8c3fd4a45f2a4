package controller

import (
	"net/http"
	"strconv"

	"github.com/frecha/iotech-storefront/internal/app/service"
	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// Providers lists the service providers
// GET /api/v1/providers
func (ctrl *CatalogController) Providers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	providers, err := ctrl.catalogService.Providers(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch providers", err, nil)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CatalogUnavailable, "Provider list is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": providers,
	})
}

// Bundles lists the data bundles for one provider
// GET /api/v1/bundles?provider_id=
func (ctrl *CatalogController) Bundles(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	providerID, err := strconv.ParseUint(c.Query("provider_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "provider_id is required")
		return
	}

	bundles, err := ctrl.catalogService.Bundles(c.Request.Context(), uint(providerID))
	if err != nil {
		log.Error("Failed to fetch bundles", err, map[string]interface{}{
			"provider_id": providerID,
		})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CatalogUnavailable, "Bundle list is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": bundles,
	})
}

// Routers lists the router products
// GET /api/v1/routers
func (ctrl *CatalogController) Routers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	routers, err := ctrl.catalogService.Routers(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch routers", err, nil)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CatalogUnavailable, "Router list is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": routers,
	})
}

// Electronics lists the electronics products
// GET /api/v1/electronics
func (ctrl *CatalogController) Electronics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	electronics, err := ctrl.catalogService.Electronics(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch electronics", err, nil)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CatalogUnavailable, "Electronics list is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": electronics,
	})
}
