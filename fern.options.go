package fern

import (
	"go.uber.org/zap"

	"github.com/fernlabs/go-fern/internal"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	maxDepth int
	logger   *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth: internal.DefaultMaxDepth,
		logger:   nil,
	}
}

// WithMaxDepth sets the maximum directive nesting depth accepted at
// compile time. Use 0 for unlimited depth.
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
