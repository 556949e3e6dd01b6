package httpserver

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.gin.Use(gin.Recovery())

	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readinessCheck)
	srv.gin.GET("/live", srv.livenessCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	webhook := srv.gin.Group("/webhook")
	webhook.Use(srv.middleware.WebhookAuth(), srv.middleware.RateLimit())
	webhook.POST("/telegram", srv.telegramHandler.HandleWebhook)

	return nil
}
