package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/middleware"
)

type FavoritesController struct{}

func NewFavoritesController() *FavoritesController {
	return &FavoritesController{}
}

type addFavoriteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// GetFavorites returns the signed-in user's favorites.
func (fc *FavoritesController) GetFavorites(c *gin.Context) {
	data := middleware.StoresFrom(c).Data
	c.JSON(http.StatusOK, gin.H{
		"favorites": data.Favorites(),
		"count":     data.FavoritesCount(),
	})
}

// AddFavorite marks a product as a favorite. Favoriting a product twice is
// a no-op rather than an error.
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}

	data := middleware.StoresFrom(c).Data
	if err := data.AddToFavorites(c.Request.Context(), req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": data.Favorites(),
		"count":     data.FavoritesCount(),
	})
}

// RemoveFavorite unmarks a product.
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	data := middleware.StoresFrom(c).Data
	if err := data.RemoveFromFavorites(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": data.Favorites(),
		"count":     data.FavoritesCount(),
	})
}
