package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	serverURL  string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simpleapi",
		Short: "SimpleAPI - item catalog served through an in-process mediator",
		Long: `SimpleAPI serves a small item catalog over HTTP. Every operation, from the
HTTP API or from this CLI, is a request routed by the mediator to the single
handler registered for its type.

Examples:
  simpleapi serve
  simpleapi items list
  simpleapi items add --name Item4
  simpleapi --server http://localhost:8080 items list
  simpleapi handlers
  simpleapi config show
  simpleapi token issue --subject alice`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/simpleapi)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("SIMPLEAPI_SERVER_URL"),
		"Base URL of a running server; items commands go over HTTP when set")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewItemsCommand())
	rootCmd.AddCommand(NewHandlersCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewTokenCommand())

	return rootCmd
}

// loadConfig loads the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
