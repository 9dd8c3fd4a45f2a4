package controller

import (
	"net/http"
	"strconv"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/service"
	apperrors "github.com/frecha/iotech-storefront/internal/errors"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Category  string  `json:"category"`
}

type UpdateItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Category  string `json:"category"`
	Quantity  *int   `json:"quantity" binding:"required,gte=0"`
}

func cartResponse(cart *model.Cart) gin.H {
	return gin.H{
		"lines":      cart.Lines,
		"line_count": len(cart.Lines),
		"item_count": cart.ItemCount(),
		"subtotal":   cart.Subtotal(),
	}
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, _ := middleware.GetSessionID(c)
	cart, err := ctrl.cartService.Get(sessionID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddItem adds a product to the cart, merging into an existing line
// when the product and category match
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add item request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.Add(sessionID, model.LineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Category:  req.Category,
	})
	if err != nil {
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to add item to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": req.ProductID,
		"category":   req.Category,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusCreated, cartResponse(cart))
}

// UpdateItem sets a line's quantity; zero removes the line. Updating a
// line that no longer exists leaves the cart unchanged.
// PUT /api/v1/cart/items
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update item request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	key := model.ItemKey{ProductID: req.ProductID, Category: req.Category}
	cart, err := ctrl.cartService.UpdateQuantity(sessionID, key, *req.Quantity)
	if err != nil {
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveItem deletes a line identified by product id and category
// DELETE /api/v1/cart/items?product_id=&category=
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		log.Warn("Invalid product id for removal", map[string]interface{}{
			"session_id": sessionID,
			"product_id": c.Query("product_id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product id")
		return
	}

	key := model.ItemKey{ProductID: uint(productID), Category: c.Query("category")}
	cart, err := ctrl.cartService.Remove(sessionID, key)
	if err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to remove cart item")
		return
	}

	log.Info("Cart line removed", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
	})
	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.cartService.Clear(sessionID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
