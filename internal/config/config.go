package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation host
	TickRateHz         int
	SnapshotTTLSeconds int
	MatchIdleMinutes   int
	ReaperPollSeconds  int
	MatchConfigDir     string
	MaxTicksPerRequest int

	// Security
	JWTSecret       string
	MatchTokenHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis (empty disables snapshot caching)
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation host
		TickRateHz:         getEnvInt("TICK_RATE_HZ", 60),
		SnapshotTTLSeconds: getEnvInt("SNAPSHOT_TTL_SECONDS", 3600),
		MatchIdleMinutes:   getEnvInt("MATCH_IDLE_MINUTES", 30),
		ReaperPollSeconds:  getEnvInt("REAPER_POLL_SECONDS", 30),
		MatchConfigDir:     getEnv("MATCH_CONFIG_DIR", ""),
		MaxTicksPerRequest: getEnvInt("MAX_TICKS_PER_REQUEST", 5000),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		MatchTokenHours: getEnvInt("MATCH_TOKEN_HOURS", 12),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
