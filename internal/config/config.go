// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// RiskFreeRate is the default annualized risk-free rate applied when a
	// request does not carry its own.
	RiskFreeRate float64

	// MaxLeverage caps the leverage slider and the leveraged frontier sweep.
	MaxLeverage float64

	// FrontierSteps is the default step count for frontier sweeps.
	FrontierSteps int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnvAsInt("PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		RiskFreeRate:  getEnvAsFloat("RISK_FREE_RATE", 0.02),
		MaxLeverage:   getEnvAsFloat("MAX_LEVERAGE", 3.0),
		FrontierSteps: getEnvAsInt("FRONTIER_STEPS", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in (0, 65535], got %d", c.Port)
	}
	if c.MaxLeverage < 1 {
		return fmt.Errorf("MAX_LEVERAGE must be at least 1, got %g", c.MaxLeverage)
	}
	if c.FrontierSteps < 1 {
		return fmt.Errorf("FRONTIER_STEPS must be at least 1, got %d", c.FrontierSteps)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
