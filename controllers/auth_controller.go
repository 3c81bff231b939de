package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/middleware"
	"github.com/jdgroup-ug/storefront/session"
)

// Struct to represent the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Struct for user registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthController struct {
	Platform *platform.Client
	Registry *session.Registry
	// CookieSecure should be true behind HTTPS.
	CookieSecure bool
}

func NewAuthController(client *platform.Client, registry *session.Registry, cookieSecure bool) *AuthController {
	return &AuthController{Platform: client, Registry: registry, CookieSecure: cookieSecure}
}

func (ac *AuthController) setSessionCookie(c *gin.Context, sid string, maxAge int) {
	c.SetCookie(session.CookieName, sid, maxAge, "/", "", ac.CookieSecure, true)
}

// SignIn handles the password grant and starts a storefront session.
func (ac *AuthController) SignIn(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(http.StatusBadRequest, "Invalid JSON body", err))
		return
	}

	sess, err := ac.Platform.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	sid, stores := ac.Registry.Create(c.Request.Context(), sess)
	ac.setSessionCookie(c, sid, 7*24*3600)
	c.JSON(http.StatusOK, gin.H{
		"user":       stores.Auth.User(),
		"expires_at": sess.ExpiresAt,
	})
}

// SignUp registers a new account. When the platform requires email
// confirmation no session is started yet.
func (ac *AuthController) SignUp(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(http.StatusBadRequest, "Invalid JSON body", err))
		return
	}

	sess, err := ac.Platform.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if sess.AccessToken == "" {
		c.JSON(http.StatusCreated, gin.H{"message": "Account created, please confirm your email"})
		return
	}

	sid, stores := ac.Registry.Create(c.Request.Context(), sess)
	ac.setSessionCookie(c, sid, 7*24*3600)
	c.JSON(http.StatusCreated, gin.H{
		"user":       stores.Auth.User(),
		"expires_at": sess.ExpiresAt,
	})
}

// SignOut revokes the platform session and tears the storefront session
// down. A revocation failure is reported; the local session stays so the
// user can retry.
func (ac *AuthController) SignOut(c *gin.Context) {
	stores := middleware.StoresFrom(c)
	if stores == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
		return
	}

	if err := stores.Auth.SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	if sid := c.GetString(middleware.ContextSID); sid != "" {
		ac.Registry.Destroy(c.Request.Context(), sid)
	}
	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Session reports the current session state.
func (ac *AuthController) Session(c *gin.Context) {
	stores := middleware.StoresFrom(c)
	if stores == nil || stores.Auth.Session() == nil {
		c.JSON(http.StatusOK, gin.H{"signed_in": false})
		return
	}

	sess := stores.Auth.Session()
	c.JSON(http.StatusOK, gin.H{
		"signed_in":  true,
		"user":       stores.Auth.User(),
		"expires_at": sess.ExpiresAt,
		"loading":    stores.Auth.Loading(),
	})
}

// Refresh forces a refreshed-session fetch.
func (ac *AuthController) Refresh(c *gin.Context) {
	stores := middleware.StoresFrom(c)
	if stores == nil {
		respondError(c, apperrors.New(http.StatusUnauthorized, "No session", nil))
		return
	}

	sess := stores.Auth.Refresh(c.Request.Context())
	if sess == nil {
		// The refresh grant was rejected; the session is gone.
		if sid := c.GetString(middleware.ContextSID); sid != "" {
			ac.Registry.Destroy(c.Request.Context(), sid)
		}
		ac.setSessionCookie(c, "", -1)
		respondError(c, apperrors.New(http.StatusUnauthorized, "Session expired", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       stores.Auth.User(),
		"expires_at": sess.ExpiresAt,
	})
}

// OAuth returns the third-party provider authorize URL; the browser
// completes the redirect flow against the platform directly.
func (ac *AuthController) OAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		respondError(c, apperrors.New(http.StatusBadRequest, "provider is required", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url": ac.Platform.OAuthURL(provider, c.Query("redirect_to")),
	})
}
