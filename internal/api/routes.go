package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuetable/internal/api/handlers"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
	"github.com/playmatatu/cuetable/internal/middleware"
	"github.com/playmatatu/cuetable/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, mgr *game.Manager, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No caching outside production
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(mgr))

		matches := v1.Group("/matches")
		{
			matches.POST("", handlers.CreateMatch(mgr, cfg))
			matches.GET("/:id", handlers.GetMatch(mgr))

			auth := handlers.MatchAuthMiddleware(mgr, cfg)
			matches.POST("/:id/pointer", auth, handlers.PointerInput(mgr))
			matches.POST("/:id/tick", auth, handlers.AdvanceMatch(mgr, cfg))
			matches.DELETE("/:id", auth, handlers.EndMatch(mgr))
			matches.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), auth, handlers.HandleMatchWebSocket(hub))
		}
	}
}
