package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/controllers"
	"github.com/jdgroup-ug/storefront/middleware"
	"github.com/jdgroup-ug/storefront/session"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Registry  *session.Registry
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Cart      *controllers.CartController
	Favorites *controllers.FavoritesController
	Search    *controllers.SearchController
	Careers   *controllers.CareersController
	Profile   *controllers.ProfileController
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.Session(d.Registry))

	// Auth flows. Credential endpoints are rate limited per client IP.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(1, 5))
	{
		auth.POST("/signup", d.Auth.SignUp)
		auth.POST("/signin", d.Auth.SignIn)
		auth.POST("/signout", d.Auth.SignOut)
		auth.POST("/refresh", d.Auth.Refresh)
		auth.GET("/session", d.Auth.Session)
		auth.GET("/oauth/:provider", d.Auth.OAuth)
	}

	// Public catalog pages.
	api.GET("/products", d.Products.GetProducts)
	api.GET("/products/:id", d.Products.GetProduct)
	api.GET("/categories", d.Products.GetCategories)
	api.GET("/search", d.Search.Search)

	// Careers page.
	api.POST("/careers/applications", d.Careers.Apply)

	// Signed-in pages.
	protected := api.Group("")
	protected.Use(middleware.RequireSession())
	{
		protected.GET("/cart", d.Cart.GetCart)
		protected.POST("/cart", d.Cart.AddItem)
		protected.PATCH("/cart/:id", d.Cart.UpdateItem)
		protected.DELETE("/cart/:id", d.Cart.RemoveItem)

		protected.GET("/favorites", d.Favorites.GetFavorites)
		protected.POST("/favorites", d.Favorites.AddFavorite)
		protected.DELETE("/favorites/:id", d.Favorites.RemoveFavorite)

		protected.GET("/search-history", d.Search.GetHistory)
		protected.POST("/search-history", d.Search.AddHistory)
		protected.DELETE("/search-history", d.Search.ClearHistory)

		protected.GET("/profile", d.Profile.GetProfile)
		protected.GET("/orders/:id/items", d.Profile.GetOrderItems)

		protected.GET("/careers/applications/cv-url", d.Careers.CVLink)
	}
}
