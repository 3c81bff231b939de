package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/middleware"
	"github.com/jdgroup-ug/storefront/services"
)

type SearchController struct {
	Catalog *services.Catalog
}

func NewSearchController(catalog *services.Catalog) *SearchController {
	return &SearchController{Catalog: catalog}
}

// Search filters the catalog by the q parameter. When a signed-in session is
// attached, the query is recorded to that user's search history; a failed
// history write never fails the search itself.
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	results := sc.Catalog.Search(c.Request.Context(), query)

	if stores := middleware.StoresFrom(c); stores != nil && query != "" {
		if err := stores.Data.AddToSearchHistory(c.Request.Context(), query); err != nil {
			logger.Warn(c, "failed to record search history", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": toProductResponses(results),
		"count":   len(results),
	})
}

type recordSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// AddHistory records a query without running a search, for clients that
// resolve results locally (the search modal's suggestion list).
func (sc *SearchController) AddHistory(c *gin.Context) {
	var req recordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}

	data := middleware.StoresFrom(c).Data
	if err := data.AddToSearchHistory(c.Request.Context(), req.Query); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"history": data.SearchHistory()})
}

// GetHistory returns the user's recent searches, newest first.
func (sc *SearchController) GetHistory(c *gin.Context) {
	data := middleware.StoresFrom(c).Data
	c.JSON(http.StatusOK, gin.H{"history": data.SearchHistory()})
}

// ClearHistory wipes the user's search history.
func (sc *SearchController) ClearHistory(c *gin.Context) {
	data := middleware.StoresFrom(c).Data
	if err := data.ClearSearchHistory(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": data.SearchHistory()})
}
