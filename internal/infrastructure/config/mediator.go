package config

// MediatorConfig holds dispatcher configuration
type MediatorConfig struct {
	// Lifetime applied to handlers that do not choose one
	Lifetime string `mapstructure:"lifetime" toml:"lifetime" validate:"required,oneof=transient per-call scoped shared-per-scope singleton process-singleton"`
}
