package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/cuetable/internal/api"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
	"github.com/playmatatu/cuetable/internal/redis"
	"github.com/playmatatu/cuetable/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	ctx := context.Background()

	// Redis is optional: without it snapshots are not cached and the reaper
	// tracks activity in memory
	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	switch {
	case err == redis.ErrNotConfigured:
		log.Println("[REDIS] REDIS_URL not set; snapshot cache disabled")
	case err != nil:
		log.Fatalf("Failed to connect to Redis: %v", err)
	default:
		defer rdb.Close()
	}

	// Initialize match manager and the websocket hub
	mgr := game.NewManager(rdb, cfg)
	hub := ws.NewHub(mgr)
	go hub.Run()

	mgr.OnUpdate(hub.PublishUpdate)
	mgr.OnClosed(hub.CloseMatch)
	hub.StartEventSubscriber(ctx, rdb)

	mgr.StartDriver(ctx)
	mgr.StartIdleReaper(ctx)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, mgr, hub, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting cuetable server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
