package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transaction-reporting-backend/internal/currency"
)

// Config is loaded once at startup from the environment (optionally seeded
// from a .env file by the caller).
type Config struct {
	ServerAddr  string
	DatabaseDSN string
	LogLevel    string
	CORSOrigin  string
	rates       map[currency.Code]decimal.Decimal
}

// Load reads configuration from environment variables with sane defaults.
// Exchange rates default to the built-in table; RATE_EUR / RATE_USD
// override individual entries.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:  GetEnv("SERVER_ADDR", ":8080"),
		DatabaseDSN: GetEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=transactions port=5432 sslmode=disable"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		CORSOrigin:  GetEnv("CORS_ORIGIN", "http://localhost:3000"),
		rates:       currency.DefaultRates(),
	}

	for code, env := range map[currency.Code]string{
		currency.EUR: "RATE_EUR",
		currency.USD: "RATE_USD",
	} {
		raw := os.Getenv(env)
		if raw == "" {
			continue
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("invalid %s value: %q", env, raw)
		}
		cfg.rates[code] = rate
	}

	return cfg, nil
}

// Rates returns the exchange rate table to the base currency.
func (c *Config) Rates() map[currency.Code]decimal.Decimal {
	return c.rates
}

// InitDB opens the Postgres connection. TranslateError is required so the
// store can recognize unique-constraint violations as duplicates.
func InitDB(c *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// GetEnv returns the environment value for key, or defaultValue when unset.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
