package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/rest"
)

// NewTokenCommand creates the token command with subcommands
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for the write endpoints",
	}

	cmd.AddCommand(newTokenIssueCommand())

	return cmd
}

func newTokenIssueCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token with server.auth.secret",
		Long: `Sign an HS256 token for POST /api/items.

Example:
  SIMPLEAPI_SERVER_AUTH_SECRET=change-me-to-something-long simpleapi token issue --subject alice --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Server.Auth.Enabled() {
				return errors.New("server.auth.secret is not set; write endpoints are unauthenticated")
			}

			token, err := rest.IssueToken(cfg.Server.Auth, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
