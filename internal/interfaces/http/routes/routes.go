// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupPromotionRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cfg)
	SetupCheckoutRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	promotionHandler := handlers.NewPromotionHandler(db, cfg)

	products := rg.Group("/products")
	{
		// Public catalog reads
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/promotions", promotionHandler.ListPromotions)

		// Catalog management for shop owners
		manage := products.Group("")
		manage.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(user.RoleShop, user.RoleAdmin))
		{
			manage.POST("", productHandler.CreateProduct)
			manage.PUT("/:id", productHandler.UpdateProduct)
		}
	}
}

// SetupPromotionRoutes sets up promotion management routes
func SetupPromotionRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	promotionHandler := handlers.NewPromotionHandler(db, cfg)

	promotions := rg.Group("/promotions")
	promotions.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(user.RoleShop, user.RoleAdmin))
	{
		promotions.POST("", promotionHandler.CreatePromotion)
		promotions.PATCH("/:id/active", promotionHandler.SetPromotionActive)
	}
}

// SetupCartRoutes sets up cart routes, buyers only
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(user.RoleBuyer))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveCartItem)
	}
}

// SetupCheckoutRoutes sets up the checkout route, buyers only
func SetupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(user.RoleBuyer))
	{
		checkout.POST("", checkoutHandler.Checkout)
	}
}

// SetupOrderRoutes sets up order routes. Reads are role-scoped inside
// the service; admin edits are gated here.
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id/status", orderHandler.TransitionOrder)

		admin := orders.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.PUT("/:id", orderHandler.UpdateOrder)
			admin.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}
}
