package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" toml:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text (alias of console), console
	Format string `mapstructure:"format" toml:"format" validate:"required,oneof=json text console"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" toml:"output" validate:"required,oneof=stdout stderr file"`

	// File path (required if output is "file")
	FilePath string `mapstructure:"file_path" toml:"file_path" validate:"required_if=Output file"`

	// Enable file rotation
	Rotation RotationConfig `mapstructure:"rotation" toml:"rotation"`

	// Include caller information (file:line)
	IncludeCaller bool `mapstructure:"include_caller" toml:"include_caller"`

	// Include stack traces for errors
	IncludeStacktrace bool `mapstructure:"include_stacktrace" toml:"include_stacktrace"`
}

// RotationConfig holds log file rotation configuration
type RotationConfig struct {
	// Enable rotation
	Enabled bool `mapstructure:"enabled" toml:"enabled"`

	// Maximum size in megabytes before rotation
	MaxSize int `mapstructure:"max_size" toml:"max_size" validate:"min=1"`

	// Maximum number of old log files to keep
	MaxBackups int `mapstructure:"max_backups" toml:"max_backups" validate:"min=0"`

	// Maximum age in days before deletion
	MaxAge int `mapstructure:"max_age" toml:"max_age" validate:"min=0"`

	// Compress rotated files
	Compress bool `mapstructure:"compress" toml:"compress"`
}
