package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/controllers"
	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/services"
)

// ---- fake catalog client ----

type fakeCatalogClient struct {
	connected  bool
	categories []models.Category
	products   []models.Product
	product    *models.Product
	productErr error
}

func (f *fakeCatalogClient) CheckConnection(_ context.Context) bool { return f.connected }
func (f *fakeCatalogClient) ListCategories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}
func (f *fakeCatalogClient) ListProducts(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}
func (f *fakeCatalogClient) GetProduct(_ context.Context, _, _ string) (*models.Product, error) {
	return f.product, f.productErr
}

func productRouter(client *fakeCatalogClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewProductController(services.NewCatalog(client))
	r := gin.New()
	r.GET("/products", ctrl.GetProducts)
	r.GET("/products/:id", ctrl.GetProduct)
	r.GET("/categories", ctrl.GetCategories)
	return r
}

// ---- tests ----

func TestGetProducts_MarksUnavailableAsNotPurchasable(t *testing.T) {
	router := productRouter(&fakeCatalogClient{
		connected:  true,
		categories: []models.Category{{ID: "c1", Name: "Electronics"}},
		products: []models.Product{
			{ID: "p1", Name: "TV", CategoryID: "c1", StockQuantity: 3, IsAvailable: true},
			{ID: "p2", Name: "Sold Out TV", CategoryID: "c1", StockQuantity: 0, IsAvailable: true},
			{ID: "p3", Name: "Discontinued", CategoryID: "c1", StockQuantity: 9, IsAvailable: false},
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []struct {
			ID          string `json:"id"`
			Purchasable bool   `json:"purchasable"`
		} `json:"products"`
		Source string `json:"source"`
	}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, services.SourceLive, body.Source)
	if assert.Len(t, body.Products, 3) {
		assert.True(t, body.Products[0].Purchasable)
		assert.False(t, body.Products[1].Purchasable)
		assert.False(t, body.Products[2].Purchasable)
	}
}

func TestGetProducts_OfflineServesFallbackSource(t *testing.T) {
	router := productRouter(&fakeCatalogClient{connected: false})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []json.RawMessage `json:"products"`
		Source   string            `json:"source"`
	}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, services.SourceFallback, body.Source)
	assert.NotEmpty(t, body.Products)
}

func TestGetProduct_UnknownIDIsNotFound(t *testing.T) {
	router := productRouter(&fakeCatalogClient{
		productErr: &platform.APIError{Status: http.StatusNotFound, Message: "no rows"},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestGetProduct_Found(t *testing.T) {
	router := productRouter(&fakeCatalogClient{
		product: &models.Product{ID: "p1", Name: "TV", StockQuantity: 1, IsAvailable: true},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/p1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"purchasable":true`)
}
