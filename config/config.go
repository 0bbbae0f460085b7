package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the application.
type Config struct {
	Port          int
	DatabaseURL   string
	AppBaseURL    string
	CatalogURL    string
	CatalogToken  string
	WebhookSecret string
	CacheSize     int
	LogLevel      string
}

// LoadConfig reads configuration from environment variables with sane defaults.
func LoadConfig() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_URL", "qrcodes.db")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("CATALOG_URL", "")
	v.SetDefault("CATALOG_TOKEN", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("CACHE_SIZE", 1000)
	v.SetDefault("LOG_LEVEL", "INFO")

	return Config{
		Port:          v.GetInt("PORT"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		AppBaseURL:    v.GetString("APP_BASE_URL"),
		CatalogURL:    v.GetString("CATALOG_URL"),
		CatalogToken:  v.GetString("CATALOG_TOKEN"),
		WebhookSecret: v.GetString("WEBHOOK_SECRET"),
		CacheSize:     v.GetInt("CACHE_SIZE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}
}
