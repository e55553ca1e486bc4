package cli

import (
	"net/url"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

const masked = "********"

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the effective configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SIMPLEAPI_* prefix, plus DATABASE_URL)
2. Config file (config.yaml, or --config)
3. Default values

Examples:
  simpleapi config show
  SIMPLEAPI_MEDIATOR_LIFETIME=singleton simpleapi config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long:  `Print the merged configuration as TOML. Secrets and passwords are masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			enc := toml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndentTables(true)
			return enc.Encode(redact(cfg))
		},
	}
}

// redact returns a copy of cfg safe to print
func redact(cfg *config.Config) config.Config {
	out := *cfg
	if out.Server.Auth.Secret != "" {
		out.Server.Auth.Secret = masked
	}
	if out.Database.Password != "" {
		out.Database.Password = masked
	}
	out.Database.URL = maskPassword(out.Database.URL)
	return out
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), masked)
	return u.String()
}
