package routes

import (
	"log/slog"
	"time"

	"pos-service/internal/api/handlers"
	"pos-service/internal/api/middleware"
	"pos-service/internal/realtime"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	engine         *gin.Engine
	wsHandler      *handlers.WSHandler
	orderHandler   *handlers.OrderHandler
	productHandler *handlers.ProductHandler
	statsHandler   *handlers.StatsHandler
	systemHandler  *handlers.SystemHandler
	rateLimitMW    *middleware.RateLimitMiddleware
	authMW         *middleware.AuthMiddleware
}

func NewRouter(
	registry *realtime.Registry,
	notifier *realtime.Notifier,
	orderService *services.OrderService,
	productService *services.ProductService,
	redisClient *redis.Client,
	jwtSecret string,
	logger *slog.Logger,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:         engine,
		wsHandler:      handlers.NewWSHandler(registry, logger),
		orderHandler:   handlers.NewOrderHandler(orderService),
		productHandler: handlers.NewProductHandler(productService),
		statsHandler:   handlers.NewStatsHandler(registry),
		systemHandler:  handlers.NewSystemHandler(notifier),
		rateLimitMW:    middleware.NewRateLimitMiddleware(redisClient),
		authMW:         middleware.NewAuthMiddleware(jwtSecret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint; identity starts unknown and is refined by an
	// authenticate message over the socket
	api.GET("/ws", r.wsHandler.HandleWebSocket)

	// Public read endpoints for the customer-facing menu board
	public := api.Group("/")
	{
		public.GET("/menu", r.productHandler.GetMenu)
		public.GET("/products/available", r.productHandler.ListAvailableProducts)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		orders := auth.Group("/orders")
		orders.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			orders.GET("", r.orderHandler.ListOrders)
			orders.POST("", r.orderHandler.CreateOrder)
			orders.GET("/:id", r.orderHandler.GetOrder)
			orders.PUT("/:id", r.orderHandler.UpdateOrder)
			orders.DELETE("/:id", r.orderHandler.DeleteOrder)
			orders.PUT("/:id/status", r.orderHandler.UpdateOrderStatus)
			orders.PUT("/:id/items/:itemId/preparation", r.orderHandler.UpdateItemPreparation)
		}

		products := auth.Group("/products")
		products.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			products.GET("", r.productHandler.ListProducts)
			// Catalog mutations are an admin capability
			products.POST("", r.authMW.RequireRole(realtime.RoleAdmin), r.productHandler.CreateProduct)
			products.PUT("/:id", r.authMW.RequireRole(realtime.RoleAdmin), r.productHandler.UpdateProduct)
			products.DELETE("/:id", r.authMW.RequireRole(realtime.RoleAdmin), r.productHandler.DeleteProduct)
			products.PUT("/:id/availability", r.authMW.RequireRole(realtime.RoleAdmin, realtime.RoleKitchen), r.productHandler.ToggleAvailability)
		}

		auth.GET("/stats", r.statsHandler.GetStats)
		auth.POST("/system/message", r.authMW.RequireRole(realtime.RoleAdmin), r.systemHandler.BroadcastSystemMessage)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
