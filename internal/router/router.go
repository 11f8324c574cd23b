package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/Apurva-Raj-FF/bt-backend/internal/handler"
	"github.com/Apurva-Raj-FF/bt-backend/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	userHandler *handler.UserHandler,
	strategyHandler *handler.StrategyHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Health check routes (no authentication required)
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	// API v1 routes
	apiV1 := h.Group("/api/v1")
	{
		// ============ Public routes (no authentication required) ============
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.RefreshToken)
		}

		// Public strategy browsing: anyone can read published strategies.
		apiV1.GET("/strategies", strategyHandler.ListPublic)
		apiV1.GET("/strategies/:id", strategyHandler.Get)

		// ============ Protected routes (JWT authentication required) ============
		authorized := apiV1.Group("")
		authorized.Use(userHandler.AuthMiddleware())
		{
			// User management
			users := authorized.Group("/users")
			{
				users.GET("/me", userHandler.GetCurrentUser)
				users.GET("/me/strategies", strategyHandler.ListMine)
			}

			// Strategy execution and saving
			strategies := authorized.Group("/strategies")
			{
				strategies.POST("/execute", strategyHandler.Execute)
				strategies.PUT("", strategyHandler.Save)
			}
		}
	}
}
