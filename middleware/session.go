package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/session"
)

// Context keys set by the session middleware.
const (
	ContextSID    = "sid"
	ContextStores = "stores"
)

// Session attaches the state-container pair for the sid cookie, when one
// exists. Requests without a restorable session pass through signed out.
func Session(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(session.CookieName)
		if err == nil && sid != "" {
			if stores := registry.Get(c.Request.Context(), sid); stores != nil {
				c.Set(ContextSID, sid)
				c.Set(ContextStores, stores)
			}
		}
		c.Next()
	}
}

// RequireSession rejects requests that have no signed-in session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := StoresFrom(c)
		if stores == nil || stores.Auth.User() == nil {
			unauthorized := apperrors.ErrUnauthorized
			c.JSON(unauthorized.Code, gin.H{"error": unauthorized.Message})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StoresFrom returns the request's container pair, or nil when signed out.
func StoresFrom(c *gin.Context) *session.Stores {
	v, ok := c.Get(ContextStores)
	if !ok {
		return nil
	}
	stores, ok := v.(*session.Stores)
	if !ok {
		return nil
	}
	return stores
}
