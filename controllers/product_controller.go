package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/services"
)

type ProductController struct {
	Catalog *services.Catalog
}

func NewProductController(catalog *services.Catalog) *ProductController {
	return &ProductController{Catalog: catalog}
}

// productResponse is a product plus the checkout-eligibility flag the grid
// renders. Unavailable products stay visible but cannot be purchased.
type productResponse struct {
	models.Product
	Purchasable bool `json:"purchasable"`
}

func toProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{Product: p, Purchasable: p.Purchasable()})
	}
	return out
}

// GetProducts returns the product grid. The source field tells callers
// whether they are looking at live data or the connectivity fallback.
func (pc *ProductController) GetProducts(c *gin.Context) {
	list := pc.Catalog.ListProducts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"products": toProductResponses(list.Products),
		"source":   list.Source,
	})
}

// GetProduct returns a single product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if platform.IsNotFound(err) {
			err = apperrors.New(http.StatusNotFound, "Product not found", err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse{Product: *product, Purchasable: product.Purchasable()})
}

// GetCategories returns all categories.
func (pc *ProductController) GetCategories(c *gin.Context) {
	categories, err := pc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
