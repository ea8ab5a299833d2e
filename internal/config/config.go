package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// DefaultJWTSecret is the development fallback used when JWT_SECRET is not
// set. It must never reach production.
const DefaultJWTSecret = "dev-insecure-secret"

// Config holds all environment-driven settings for the service.
type Config struct {
	MongoURI    string
	DBName      string
	JWTSecret   string
	Port        string
	TokenExpiry time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment, applying defaults for anything unset.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "account_service"),
		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		Port:         getEnv("PORT", "5055"),
		TokenExpiry:  time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 168)) * time.Hour,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPSender:   os.Getenv("SMTP_SENDER"),
	}

	if cfg.JWTSecret == DefaultJWTSecret {
		log.Warn("JWT_SECRET is not set, using insecure development default")
	}

	return cfg
}

// MailConfigured reports whether enough SMTP settings are present to send
// email. Credentials are optional for unauthenticated relays.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPSender != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.WithField("key", key).Warnf("Invalid integer %q, using default %d", value, fallback)
		return fallback
	}
	return n
}
