package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether dispatch metrics are collected and served
	Enabled bool `mapstructure:"enabled" toml:"enabled"`

	// Path for the metrics endpoint on the API server (default: /metrics)
	Path string `mapstructure:"path" toml:"path" validate:"omitempty,startswith=/"`
}
