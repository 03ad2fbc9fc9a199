package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/telehotels/api/health"
	"github.com/killallgit/telehotels/api/types"
	"github.com/killallgit/telehotels/api/version"
	"github.com/killallgit/telehotels/api/webhook"
	_ "github.com/killallgit/telehotels/docs/swagger"
)

// Telegram delivers from a small set of servers, so the limit is per client IP
const (
	webhookRPS   = 30
	webhookBurst = 60
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	telegramGroup := engine.Group("/telegram")
	telegramGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, webhookRPS, webhookBurst))
	webhook.RegisterRoutes(telegramGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  types.StatusError,
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
