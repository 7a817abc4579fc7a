package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedDemoData    bool
}

// EngineConfig holds the tuning knobs for savings-rate estimation.
// RateWindowSize is how many recent history entries feed the velocity
// estimate; TrendSampleSize is how many entries from each end of the
// window are compared to classify the trend.
type EngineConfig struct {
	RateWindowSize  int
	TrendSampleSize int
	MilestonesFile  string
}
