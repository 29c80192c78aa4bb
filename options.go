package facesheet

import (
	"go.uber.org/fx"
)

// Options holds construction settings for the application.
type Options struct {
	// ConfigPath is the service configuration file.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Modules are extra Fx modules appended to the graph, used by tests
	// and embedders.
	Modules []fx.Option
}

// Option applies one construction setting.
type Option func(*Options)

// WithConfigPath sets the configuration file path.
func WithConfigPath(path string) Option {
	return func(opts *Options) {
		opts.ConfigPath = path
	}
}

// WithLogLevel overrides the configured log level.
// Valid levels are: "debug", "info", "warn", "error".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithModules appends Fx modules to the application graph.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}
