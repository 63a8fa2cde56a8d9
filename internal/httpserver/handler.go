package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	convHTTP "relay-bot/internal/conversation/delivery/http"
	"relay-bot/internal/model"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	if srv.environment != string(model.EnvironmentProduction) {
		srv.gin.Use(gin.Logger())
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	api := srv.gin.Group("/api/v1")
	convHTTP.RegisterRoutes(api.Group("/conversations"), convHTTP.New(srv.l, srv.conversationUC))

	if srv.telegramHandler == nil {
		srv.l.Debugf(ctx, "Telegram transport not active, skipping webhook route")
		return
	}

	handlers := []gin.HandlerFunc{srv.telegramHandler.HandleWebhook}
	if srv.webhookGuard != nil {
		handlers = append([]gin.HandlerFunc{srv.webhookGuard}, handlers...)
	}
	srv.gin.POST("/webhook/telegram", handlers...)
	srv.l.Infof(ctx, "Telegram webhook route registered at POST /webhook/telegram")
}
