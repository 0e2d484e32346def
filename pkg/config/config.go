package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Brevo transactional email
	BrevoAPIKey  string
	BrevoBaseURL string
	MailFrom     string
	MailFromName string

	// Link used in job-alert emails
	FrontendURL string

	UploadDir string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "jobportal"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 7*24*60),
		BrevoAPIKey:   os.Getenv("BREVO_API_KEY"),
		BrevoBaseURL:  getEnv("BREVO_BASE_URL", "https://api.brevo.com"),
		MailFrom:      getEnv("MAIL_FROM", "talosync@gmail.com"),
		MailFromName:  getEnv("MAIL_FROM_NAME", "Job Portal"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
