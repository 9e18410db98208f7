package routes

import (
	"corpmatch_backend/internal/handlers"
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/middleware"
	"corpmatch_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
	wsHandler *ws.WebSocketHandler,
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")

	// Публичные маршруты: регистрация/вход, вебхуки шлюза, health
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.WebhookHandler.RegisterRoutes(api)
		appHandlers.HealthHandler.RegisterRoutes(api)
	}

	// Все остальные маршруты требуют JWT
	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware())
	{
		appHandlers.ProfileHandler.RegisterRoutes(secured)
		appHandlers.MatchHandler.RegisterRoutes(secured)
		appHandlers.MeetingHandler.RegisterRoutes(secured)
		appHandlers.CabHandler.RegisterRoutes(secured)
		appHandlers.PremiumHandler.RegisterRoutes(secured)
		appHandlers.MessageHandler.RegisterRoutes(secured)
		appHandlers.NotificationHandler.RegisterRoutes(secured)
		appHandlers.PhoneHandler.RegisterRoutes(secured)
		appHandlers.RestaurantHandler.RegisterRoutes(secured)
	}

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware()) // <-- AuthMiddleware должно быть в пакете middleware
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
