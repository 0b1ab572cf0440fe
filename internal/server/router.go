package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/searchlift-backend/internal/http/handlers"
	"github.com/yungbote/searchlift-backend/internal/http/middleware"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	AuthHandler     *handlers.AuthHandler
	ProfileHandler  *handlers.ProfileHandler
	KeywordsHandler *handlers.KeywordsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)

		protected.GET("/profile", cfg.ProfileHandler.Get)
		protected.PUT("/profile", cfg.ProfileHandler.Upsert)

		protected.POST("/keywords/universe/initialize", cfg.KeywordsHandler.Initialize)
		protected.GET("/keywords/universe", cfg.KeywordsHandler.Get)
		protected.POST("/keywords/universe/finalize", cfg.KeywordsHandler.Finalize)
	}

	return router
}
