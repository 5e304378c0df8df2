package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the engine needs; components receive it
// explicitly instead of reading the environment themselves.
type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string
	AmqpURL     string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	// BaseURL is the public origin tracking links are built against,
	// e.g. https://app.example.com
	BaseURL             string
	MailFrom            string
	FallbackRedirectURL string

	RecipientPageSize int
	CSVBatchSize      int
	PauseBackoff      time.Duration
	TaskDueDays       int
}

// Load reads a .env file if present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		AmqpURL:     os.Getenv("AMQP_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		MailFrom:            getEnv("MAIL_FROM", "no-reply@localhost"),
		FallbackRedirectURL: getEnv("FALLBACK_REDIRECT_URL", "http://localhost:8080"),

		RecipientPageSize: getEnvInt("RECIPIENT_PAGE_SIZE", 200),
		CSVBatchSize:      getEnvInt("CSV_BATCH_SIZE", 100),
		PauseBackoff:      getEnvDuration("PAUSE_BACKOFF", 30*time.Second),
		TaskDueDays:       getEnvInt("TASK_DUE_DAYS", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
