package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"goal-progress-engine/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "goals.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedDemoData:    getEnvBool("SEED_DEMO_DATA", false),
		},
		Engine: models.EngineConfig{
			RateWindowSize:  getEnvInt("RATE_WINDOW_SIZE", 30),
			TrendSampleSize: getEnvInt("TREND_SAMPLE_SIZE", 5),
			MilestonesFile:  getEnvString("MILESTONES_FILE", ""),
		},
	}

	if cfg.Engine.RateWindowSize < 2 {
		return nil, fmt.Errorf("rate window size must be at least 2, got %d", cfg.Engine.RateWindowSize)
	}
	if cfg.Engine.TrendSampleSize < 1 {
		return nil, fmt.Errorf("trend sample size must be at least 1, got %d", cfg.Engine.TrendSampleSize)
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
