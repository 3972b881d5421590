// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
)

// SetupCartRoutes sets up cart related routes. Reads work without an
// identity (the cart is inert, not an error); mutations require one but
// the handlers answer with the store's sign-in prompt semantics.
func SetupCartRoutes(rg *gin.RouterGroup, registry *cart.Registry, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(registry, cfg)

	carts := rg.Group("/cart")
	carts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCart)
		carts.GET("/count", cartHandler.GetCartCount)
		carts.POST("/items", cartHandler.AddToCart)
		carts.PUT("/items/:id", cartHandler.UpdateCartItem)
		carts.DELETE("/items/:id", cartHandler.RemoveFromCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.PUT("/drawer", cartHandler.SetDrawer)
		carts.DELETE("/error", cartHandler.DismissError)
	}
}

// SetupSessionRoutes sets up session lifecycle routes
func SetupSessionRoutes(rg *gin.RouterGroup, registry *cart.Registry, cfg *config.Config) {
	sessionHandler := handlers.NewSessionHandler(registry)

	session := rg.Group("/session")
	session.Use(middleware.AuthMiddleware(cfg))
	{
		session.POST("/signout", sessionHandler.SignOut)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, registry *cart.Registry, redisClient *redis.Client, cfg *config.Config) {
	SetupCartRoutes(rg, registry, cfg)
	SetupSessionRoutes(rg, registry, cfg)
}
