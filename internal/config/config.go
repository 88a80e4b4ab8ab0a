package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	DatabasePath string
	LogLevel     string

	// CompanyScope lists the group companies whose sales feed every
	// aggregation. Peer search never crosses this scope.
	CompanyScope []string

	// Benchmark engine defaults
	MinPeers  int
	MinGapPct float64
	MaxGaps   int

	// Cache TTLs in seconds
	ClassificationTTL int
	StrategyTTL       int

	// Cron schedule for the nightly segmentation batch
	SegmentationSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DatabasePath:         getEnv("DATABASE_PATH", "./data/sales.db"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CompanyScope:         getEnvAsSlice("COMPANY_SCOPE", []string{"Cromo", "BBA"}),
		MinPeers:             getEnvAsInt("BENCHMARK_MIN_PEERS", 5),
		MinGapPct:            getEnvAsFloat("BENCHMARK_MIN_GAP_PCT", 20.0),
		MaxGaps:              getEnvAsInt("BENCHMARK_MAX_OPPORTUNITIES", 10),
		ClassificationTTL:    getEnvAsInt("CLASSIFICATION_CACHE_TTL", 600),
		StrategyTTL:          getEnvAsInt("STRATEGY_CACHE_TTL", 300),
		SegmentationSchedule: getEnv("SEGMENTATION_SCHEDULE", "0 0 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if len(c.CompanyScope) == 0 {
		return fmt.Errorf("COMPANY_SCOPE must name at least one company")
	}
	if c.MinPeers < 1 {
		return fmt.Errorf("BENCHMARK_MIN_PEERS must be positive")
	}
	if c.MinGapPct < 0 || c.MinGapPct > 100 {
		return fmt.Errorf("BENCHMARK_MIN_GAP_PCT must be within [0, 100]")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
