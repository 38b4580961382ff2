// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rectification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreSize bounds the in-memory result store.
	StoreSize int `koanf:"store_size"`

	// SearchWindowMinutes is the half-width of the candidate window
	// around the reported birth time.
	SearchWindowMinutes int `koanf:"search_window_minutes"`

	// StepMinutes is the candidate granularity inside the window.
	StepMinutes int `koanf:"step_minutes"`

	// MaxEvents caps how many life events one submission may carry.
	MaxEvents int `koanf:"max_events"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		StoreSize:           100_000,
		SearchWindowMinutes: 120,
		StepMinutes:         15,
		MaxEvents:           50,
	}
}
