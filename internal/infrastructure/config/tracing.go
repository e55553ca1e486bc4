package config

// TracingConfig holds OpenTelemetry export configuration
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`

	// OTLP/HTTP endpoint URL, e.g. http://localhost:4318
	Endpoint string `mapstructure:"endpoint" toml:"endpoint" validate:"omitempty,url"`

	ServiceName string `mapstructure:"service_name" toml:"service_name" validate:"required"`

	// Fraction of root traces sampled, 0..1
	SampleRatio float64 `mapstructure:"sample_ratio" toml:"sample_ratio" validate:"min=0,max=1"`
}
