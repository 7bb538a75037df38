package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	IsProduction    bool
	LogLevel        string
	DefaultCurrency string
	LedgerActor     string // Actor recorded on ledger chain appends
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEFAULT_CURRENCY", "VND")
	viper.SetDefault("LEDGER_ACTOR", "system")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	if len(cfg.DefaultCurrency) != 3 {
		log.Printf("Warning: Invalid value for DEFAULT_CURRENCY ('%s'). Defaulting to VND.\n", cfg.DefaultCurrency)
		cfg.DefaultCurrency = "VND"
	}
	cfg.LedgerActor = viper.GetString("LEDGER_ACTOR")
	if cfg.LedgerActor == "" {
		cfg.LedgerActor = "system"
	}

	return cfg, nil
}
