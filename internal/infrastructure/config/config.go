// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	Debug      bool

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Telegram
	TelegramToken string

	// AeroAPI
	AeroAPIKey     string
	AeroAPIBaseURL string
	LookupTimeout  time.Duration

	// Watchdog
	WatchdogInterval time.Duration
}

// LoadConfig loads configuration from environment variables. Missing
// required credentials are fatal: the process must not start without them.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Debug:        getEnvAsBool("DEBUG", false),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		AeroAPIKey:     getEnv("AEROAPI_KEY", ""),
		AeroAPIBaseURL: getEnv("AEROAPI_URL", "https://aeroapi.flightaware.com/aeroapi"),
		LookupTimeout:  time.Duration(getEnvAsInt("LOOKUP_TIMEOUT", 25)) * time.Second,

		WatchdogInterval: time.Duration(getEnvAsInt("WATCHDOG_INTERVAL_MINUTES", 15)) * time.Minute,
	}

	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if config.AeroAPIKey == "" {
		return nil, fmt.Errorf("AEROAPI_KEY is required")
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
