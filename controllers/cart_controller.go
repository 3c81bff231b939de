package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/middleware"
)

type CartController struct{}

func NewCartController() *CartController {
	return &CartController{}
}

type addCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// Quantity is not tagged required: an explicit 0 is a remove, not a
// missing field.
type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func cartView(c *gin.Context) gin.H {
	data := middleware.StoresFrom(c).Data
	return gin.H{
		"items": data.CartItems(),
		"count": data.CartCount(),
		"total": data.CartTotal(),
	}
}

// GetCart returns the cart contents with the running count and total.
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(c))
}

// AddItem adds a product to the cart. Adding a product already in the cart
// merges the quantities into the existing line.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	stores := middleware.StoresFrom(c)
	if err := stores.Data.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(c))
}

// UpdateItem sets the quantity of a cart line. A quantity below one removes
// the line rather than leaving a zero-quantity entry behind.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}

	stores := middleware.StoresFrom(c)
	productID := c.Param("id")

	var err error
	if req.Quantity < 1 {
		err = stores.Data.RemoveFromCart(c.Request.Context(), productID)
	} else {
		err = stores.Data.UpdateCartQuantity(c.Request.Context(), productID, req.Quantity)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(c))
}

// RemoveItem deletes a cart line.
func (cc *CartController) RemoveItem(c *gin.Context) {
	stores := middleware.StoresFrom(c)
	if err := stores.Data.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(c))
}
