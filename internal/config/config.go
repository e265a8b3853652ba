// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars
//   on top.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address. The default matches the
	// port the original mobile clients expect.
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres connection string for the event store.
	// Empty selects the in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// SendBuffer bounds each channel's outbound broadcast buffer.
	SendBuffer int `koanf:"send_buffer"`

	// WriteTimeoutMS bounds individual websocket writes.
	WriteTimeoutMS int `koanf:"write_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":5000",
		DatabaseURL:    "",
		SendBuffer:     32,
		WriteTimeoutMS: 10_000,
	}
}
