package config

import (
	"fmt"

	"github.com/kilianp07/evtol/core/sessionlog"
)

// LoggingConfig defines settings for session log storage and rotation.
type LoggingConfig struct {
	// Backend selects the store type: "jsonl", "sqlite" or "memory".
	Backend string `json:"backend" default:"jsonl"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation of a JSONL store when positive.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults picks a path matching the backend.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = sessionlog.BackendJSONL
	}
	if c.Path == "" && c.Backend != sessionlog.BackendMemory {
		switch c.Backend {
		case sessionlog.BackendSQLite:
			c.Path = "logs/sessions.db"
		default:
			c.Path = "logs/sessions.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case sessionlog.BackendJSONL, sessionlog.BackendSQLite, sessionlog.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" && c.Backend != sessionlog.BackendMemory {
		return fmt.Errorf("path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must not be negative")
	}
	return nil
}

// StoreOptions converts the section to session store options.
func (c LoggingConfig) StoreOptions() sessionlog.Options {
	return sessionlog.Options{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
