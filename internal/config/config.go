package config

import "os"

// Config holds environment-driven configuration.
type Config struct {
	Addr         string
	DatabaseURL  string
	RedisAddr    string
	RedisPass    string
	JWTSecret    string
	AIGatewayURL string
	AIGatewayKey string
	AIModel      string
}

// Load reads configuration from environment variables. DatabaseURL and
// JWTSecret have no defaults; main refuses to start without them.
func Load() Config {
	return Config{
		Addr:         getenv("FARMDIRECT_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AIGatewayURL: os.Getenv("AI_GATEWAY_URL"),
		AIGatewayKey: os.Getenv("AI_GATEWAY_API_KEY"),
		AIModel:      getenv("AI_MODEL", "google/gemini-2.5-flash"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
