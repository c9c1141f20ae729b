package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	// Optional: cross-instance fanout for the realtime hub
	REDIS_URL string

	// Idempotency-key store (local bolt file)
	IDEMPOTENCY_DB_PATH string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	// Seed operator account, created on first boot if missing
	OPERATOR_EMAIL    string
	OPERATOR_PASSWORD string

	CORS_ORIGIN string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	REDIS_URL = getEnv("REDIS_URL", "")
	IDEMPOTENCY_DB_PATH = getEnv("IDEMPOTENCY_DB_PATH", "idempotency.db")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	OPERATOR_EMAIL = getEnv("OPERATOR_EMAIL", "")
	OPERATOR_PASSWORD = getEnv("OPERATOR_PASSWORD", "")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
}

// GoogleLoginEnabled reports whether the Google OAuth flow is configured.
func GoogleLoginEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
