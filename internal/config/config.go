package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Log        LogConfig
	Engine     EngineConfig
	Settlement SettlementConfig
	Security   SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// EngineConfig holds the settings passed explicitly into the valuation core.
type EngineConfig struct {
	FXMode                   fx.Mode
	CostBasisMethod          lots.Strategy
	HeuristicRedemptionMatch bool
}

// CostBasis returns the configured cost basis method, PPP when unset.
func (c EngineConfig) CostBasis() lots.Strategy {
	if c.CostBasisMethod == "" {
		return lots.PPP
	}
	return c.CostBasisMethod
}

// SettlementConfig controls the periodic fixed-term deposit settlement job.
type SettlementConfig struct {
	Enabled  bool
	Schedule string
}

// SecurityConfig holds secrets for protected endpoints.
type SecurityConfig struct {
	APIKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	fxMode, err := fx.ParseMode(strings.ToLower(getEnv("FX_MODE", "liquidation")))
	if err != nil {
		return nil, fmt.Errorf("FX_MODE: %w", err)
	}

	method, err := lots.ParseStrategy(getEnv("COST_BASIS_METHOD", "ppp"))
	if err != nil {
		return nil, fmt.Errorf("COST_BASIS_METHOD: %w", err)
	}
	if method == lots.Manual {
		return nil, fmt.Errorf("COST_BASIS_METHOD: %s cannot be replayed from the ledger", method)
	}

	heuristic, err := getEnvBool("PF_HEURISTIC_MATCH", true)
	if err != nil {
		return nil, err
	}
	autoSettle, err := getEnvBool("AUTO_SETTLE_ENABLED", true)
	if err != nil {
		return nil, err
	}
	pretty, err := getEnvBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	schedule := getEnv("SETTLEMENT_SCHEDULE", "@every 5m")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("SETTLEMENT_SCHEDULE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Engine: EngineConfig{
			FXMode:                   fxMode,
			CostBasisMethod:          method,
			HeuristicRedemptionMatch: heuristic,
		},
		Settlement: SettlementConfig{
			Enabled:  autoSettle,
			Schedule: schedule,
		},
		Security: SecurityConfig{
			APIKey: os.Getenv("INTERNAL_API_KEY"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool parses a boolean environment variable.
func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}

// getEnvList splits a comma-separated environment variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
