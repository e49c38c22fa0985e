// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for tripflow.
package config

import (
	"time"

	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/gateway"
	"github.com/tripflow/tripflow/internal/provider/openaicompat"
	"github.com/tripflow/tripflow/internal/ratelimit"
	"github.com/tripflow/tripflow/internal/telemetry"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Server configures the HTTP gateway.
	Server gateway.Config `yaml:"server"`

	// Limits configures admission control and request deduplication.
	Limits LimitsConfig `yaml:"limits"`

	// Memory configures the short-term memory sweep.
	Memory MemoryConfig `yaml:"memory"`

	// Provider configures the generation backend.
	Provider openaicompat.Config `yaml:"provider"`

	// Storage selects and configures the conversation store.
	Storage StorageConfig `yaml:"storage"`

	// Telemetry configures tracing export.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// LimitsConfig groups the per-user chat rate limit and the dedup cache.
type LimitsConfig struct {
	Chat  ratelimit.Config `yaml:"chat"`
	Dedup dedup.Config     `yaml:"dedup"`
}

// MemoryConfig controls the background memory sweep and dedup purge.
type MemoryConfig struct {
	// MaxAge is how old every fact of a conversation must be before the
	// sweep drops it. Zero means 24h.
	MaxAge time.Duration `yaml:"max_age"`

	// SweepSchedule is the cron expression for the memory sweep.
	SweepSchedule string `yaml:"sweep_schedule"`

	// PurgeSchedule is the cron expression for the dedup purge.
	PurgeSchedule string `yaml:"purge_schedule"`
}

// Storage driver names.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// StorageConfig selects the conversation store backend.
type StorageConfig struct {
	// Driver is "memory" or "sqlite". Empty means "memory".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file. Required for the sqlite driver.
	Path string `yaml:"path"`
}

func (s *StorageConfig) defaults() {
	if s.Driver == "" {
		s.Driver = DriverMemory
	}
}
