package handlers

import (
	"farmhub/internal/app"
	"farmhub/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	wsHandler := NewWebSocketHandler(services.AuthService)
	services.UploadService.SetNotifier(wsHandler)

	// Auth routes (no authentication required)
	authHandler := NewAuthHandler(services.AuthService)
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.RefreshToken)

	// WebSocket endpoint (authenticates via query parameter)
	api.GET("/ws", wsHandler.HandleWebSocket)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	protected.PUT("/auth/change-password", authHandler.ChangePassword)

	// System admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireSystemRole())
	orgHandler := NewOrganizationHandler(services.OrganizationRepo, services.UserRepo, services.AuthService)
	admin.GET("/organizations", orgHandler.List)
	admin.POST("/organizations", orgHandler.Create)
	admin.GET("/organizations/:id", orgHandler.GetByID)
	admin.PUT("/organizations/:id", orgHandler.Update)

	// Organization routes
	org := protected.Group("")
	org.Use(middleware.RequireOrganizationRole())

	uploadHandler := NewUploadHandler(services.UploadService)
	org.POST("/orders/upload", uploadHandler.Upload)
	org.POST("/orders/upload/decrypt", uploadHandler.Decrypt)
	org.POST("/orders/upload/:session_id/confirm", uploadHandler.Confirm)
	org.DELETE("/orders/upload/:session_id", uploadHandler.Cancel)

	orderHandler := NewOrderHandler(services.OrderRepo)
	org.GET("/orders", orderHandler.List)
	org.POST("/orders", orderHandler.Create)
	org.GET("/orders/:id", orderHandler.GetByID)
	org.DELETE("/orders/:id", orderHandler.Delete)
	org.PUT("/orders/shipping-status", orderHandler.UpdateShippingStatus)

	productHandler := NewOptionProductHandler(services.OptionProductRepo)
	org.GET("/option-products", productHandler.List)
	org.POST("/option-products", productHandler.Create)
	org.GET("/option-products/:id", productHandler.GetByID)
	org.PUT("/option-products/:id", productHandler.Update)
	org.DELETE("/option-products/:id", productHandler.Delete)

	mappingHandler := NewOptionMappingHandler(services.OptionMappingRepo)
	org.GET("/option-mappings", mappingHandler.List)
	org.POST("/option-mappings", mappingHandler.Create)
	org.PUT("/option-mappings/:id", mappingHandler.Update)
	org.DELETE("/option-mappings/:id", mappingHandler.Delete)

	dashboardHandler := NewDashboardHandler(services.OrderRepo, services.UploadBatchRepo)
	org.GET("/dashboard/stats", dashboardHandler.GetStats)
	org.GET("/dashboard/recent-uploads", dashboardHandler.RecentUploads)
}
