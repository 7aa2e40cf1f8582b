// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group onto rg
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupMarketRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, cfg)
	SetupCouponRoutes(rg, db, cfg)
	SetupAddressRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, cfg)
}

// SetupMarketRoutes sets up market browsing routes
func SetupMarketRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	marketHandler := handlers.NewMarketHandler(db, cfg)

	markets := rg.Group("/markets")
	{
		markets.GET("", marketHandler.GetMarkets)
		markets.GET("/:id", marketHandler.GetMarket)
	}
}

// SetupProductRoutes sets up product browsing routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupCartRoutes sets up cart routes. Carts are keyed per user and
// market, so all routes require authentication.
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	carts := rg.Group("/carts")
	carts.Use(middleware.AuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCarts)
		carts.GET("/:id", cartHandler.GetCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.POST("/items/batch", cartHandler.AddMultipleItems)
		carts.PUT("/items/:id", cartHandler.UpdateItem)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
		carts.DELETE("/:id/items", cartHandler.ClearCart)
		carts.DELETE("/:id", cartHandler.DeleteCart)
	}
}

// SetupOrderRoutes sets up order and delivery routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.GetOrderReceipt)
	}

	deliveries := rg.Group("/deliveries")
	deliveries.Use(middleware.AuthMiddleware(cfg))
	deliveries.Use(middleware.DelivererMiddleware())
	{
		deliveries.GET("", orderHandler.GetDeliveries)
	}
}

// SetupCouponRoutes sets up public coupon validation
func SetupCouponRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	couponHandler := handlers.NewCouponHandler(db, cfg)

	coupons := rg.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware(cfg))
	{
		coupons.POST("/validate", couponHandler.ValidateCoupon)
	}
}

// SetupAddressRoutes sets up user address routes
func SetupAddressRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	addressHandler := handlers.NewAddressHandler(db, cfg)

	addresses := rg.Group("/addresses")
	addresses.Use(middleware.AuthMiddleware(cfg))
	{
		addresses.GET("", addressHandler.GetAddresses)
		addresses.GET("/:id", addressHandler.GetAddress)
		addresses.POST("", addressHandler.CreateAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
	}
}

// SetupAdminRoutes sets up admin management routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	marketHandler := handlers.NewMarketHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)
	couponHandler := handlers.NewCouponHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		// Market management
		markets := admin.Group("/markets")
		{
			markets.POST("", marketHandler.CreateMarket)
			markets.PUT("/:id", marketHandler.UpdateMarket)
			markets.DELETE("/:id", marketHandler.DeleteMarket)
		}

		// Product management
		products := admin.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		// Coupon management
		coupons := admin.Group("/coupons")
		{
			coupons.GET("", couponHandler.ListCoupons)
			coupons.GET("/:id", couponHandler.GetCoupon)
			coupons.POST("", couponHandler.CreateCoupon)
			coupons.PUT("/:id", couponHandler.UpdateCoupon)
			coupons.DELETE("/:id", couponHandler.DeleteCoupon)
		}

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminListOrders)
			orders.PUT("/:id", orderHandler.UpdateOrder)
			orders.PUT("/:id/deliverer", orderHandler.AssignDeliverer)
		}
	}
}
