package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/middleware"
	"github.com/jdgroup-ug/storefront/models"
)

// ProfileClient is the slice of the platform client the profile page needs.
type ProfileClient interface {
	GetProfile(ctx context.Context, token, userID string) (*models.Profile, error)
	ListOrders(ctx context.Context, token, userID string) ([]models.Order, error)
	ListOrderItems(ctx context.Context, token, orderID string) ([]models.OrderItem, error)
}

type ProfileController struct {
	Platform ProfileClient
}

func NewProfileController(client ProfileClient) *ProfileController {
	return &ProfileController{Platform: client}
}

// GetProfile aggregates the account page: profile row and order history are
// fetched concurrently, then joined into a single response.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	stores := middleware.StoresFrom(c)
	sess := stores.Auth.Session()
	if sess == nil || sess.User == nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	token, userID := sess.AccessToken, sess.User.ID

	type profileResult struct {
		profile *models.Profile
		err     error
	}
	type ordersResult struct {
		orders []models.Order
		err    error
	}

	profileCh := make(chan profileResult, 1)
	ordersCh := make(chan ordersResult, 1)

	go func() {
		profile, err := pc.Platform.GetProfile(ctx, token, userID)
		profileCh <- profileResult{profile: profile, err: err}
	}()
	go func() {
		orders, err := pc.Platform.ListOrders(ctx, token, userID)
		ordersCh <- ordersResult{orders: orders, err: err}
	}()

	profile := <-profileCh
	orders := <-ordersCh

	if profile.err != nil {
		respondError(c, profile.err)
		return
	}
	if orders.err != nil {
		respondError(c, orders.err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile.profile,
		"orders":  orders.orders,
	})
}

// GetOrderItems returns the line items of one order.
func (pc *ProfileController) GetOrderItems(c *gin.Context) {
	stores := middleware.StoresFrom(c)
	sess := stores.Auth.Session()
	if sess == nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	items, err := pc.Platform.ListOrderItems(c.Request.Context(), sess.AccessToken, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
