package router

import (
	"github.com/frecha/iotech-storefront/config"
	"github.com/frecha/iotech-storefront/internal/app/controller"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	sessionController  *controller.SessionController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	authController     *controller.AuthController
	catalogController  *controller.CatalogController
	trackingController *controller.TrackingController
	sessionMiddleware  *middleware.SessionMiddleware
	config             *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	trackingController *controller.TrackingController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:  sessionController,
		cartController:     cartController,
		checkoutController: checkoutController,
		authController:     authController,
		catalogController:  catalogController,
		trackingController: trackingController,
		sessionMiddleware:  sessionMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Frecha storefront API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// session minting is the only route reachable without a token
		v1.POST("/session", r.sessionController.CreateSession)

		// catalog is public read-only data
		v1.GET("/providers", r.catalogController.Providers)
		v1.GET("/bundles", r.catalogController.Bundles)
		v1.GET("/routers", r.catalogController.Routers)
		v1.GET("/electronics", r.catalogController.Electronics)

		cart := v1.Group("/cart")
		cart.Use(r.sessionMiddleware.RequireSession())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items", r.cartController.UpdateItem)
			cart.DELETE("/items", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(r.sessionMiddleware.RequireSession())
		{
			checkout.POST("", r.checkoutController.Begin)
			checkout.GET("", r.checkoutController.Get)
			checkout.POST("/choice", r.checkoutController.Choose)
			checkout.POST("/signin", r.checkoutController.SignIn)
			checkout.POST("/confirm", r.checkoutController.Confirm)
			checkout.POST("/retry", r.checkoutController.Retry)
			checkout.POST("/back", r.checkoutController.Back)
			checkout.DELETE("", r.checkoutController.Cancel)
		}

		auth := v1.Group("/auth")
		auth.Use(r.sessionMiddleware.RequireSession())
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authController.Me)
		}

		tracking := v1.Group("/tracking")
		tracking.Use(r.sessionMiddleware.RequireSession())
		{
			tracking.GET("", r.trackingController.Recent)
			tracking.GET("/:number", r.trackingController.Track)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
