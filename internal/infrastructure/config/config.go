package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SIMPLEAPI_SERVER_ADDRESS
const EnvPrefix = "SIMPLEAPI"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Mediator MediatorConfig `mapstructure:"mediator" toml:"mediator"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing" toml:"tracing"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
}

// keys lists every leaf setting so environment overrides reach Unmarshal
// even when the key is absent from the config file.
var keys = []string{
	"server.address", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"server.pid_file", "server.auth.secret", "server.auth.issuer",
	"server.rate_limit.enabled", "server.rate_limit.requests", "server.rate_limit.burst",
	"database.type", "database.url", "database.host", "database.port", "database.user",
	"database.password", "database.name", "database.sslmode", "database.path",
	"database.pool.max_open", "database.pool.max_idle", "database.pool.max_lifetime",
	"mediator.lifetime",
	"metrics.enabled", "metrics.path",
	"tracing.enabled", "tracing.endpoint", "tracing.service_name", "tracing.sample_ratio",
	"logging.level", "logging.format", "logging.output", "logging.file_path",
	"logging.include_caller", "logging.include_stacktrace",
	"logging.rotation.enabled", "logging.rotation.max_size", "logging.rotation.max_backups",
	"logging.rotation.max_age", "logging.rotation.compress",
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/simpleapi")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Booleans cannot be defaulted after unmarshal, a false there is indistinguishable from unset
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	// DATABASE_URL is honored without the prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
		Tracing: TracingConfig{SampleRatio: 1},
	}
	SetDefaults(cfg)
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
