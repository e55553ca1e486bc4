package config

import "time"

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Listen address, host:port
	Address string `mapstructure:"address" toml:"address" validate:"required,hostname_port"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" toml:"shutdown_timeout"`

	// PID file guarding against a second server instance
	PIDFile string `mapstructure:"pid_file" toml:"pid_file"`

	Auth      AuthConfig      `mapstructure:"auth" toml:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" toml:"rate_limit"`
}

// AuthConfig holds bearer token verification settings.
// Write endpoints require a valid HS256 token when Secret is set.
type AuthConfig struct {
	Secret string `mapstructure:"secret" toml:"secret" validate:"omitempty,min=16"`
	Issuer string `mapstructure:"issuer" toml:"issuer"`
}

// Enabled reports whether bearer auth is required on write endpoints
func (a AuthConfig) Enabled() bool {
	return a.Secret != ""
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`

	// Maximum requests per second
	Requests int `mapstructure:"requests" toml:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" toml:"burst" validate:"min=1"`
}
