package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
	"github.com/yungbote/searchlift-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		AuthHandler:     handlerset.Auth,
		ProfileHandler:  handlerset.Profile,
		KeywordsHandler: handlerset.Keywords,
		AuthMiddleware:  middlewareset.Auth,
	})
}
