package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/api"
	"github.com/andrescamacho/simplemediator-go/internal/bootstrap"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the item API until interrupted.

Only one server may run per PID file (server.pid_file). Use --force to start
anyway when the file names a live process.

Example:
  simpleapi serve --config ./configs/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pf := pidfile.New(cfg.Server.PIDFile)
			if err := pf.Acquire(force); err != nil {
				if errors.Is(err, pidfile.ErrAlreadyRunning) {
					return fmt.Errorf("%w\nUse --force to start anyway", err)
				}
				return err
			}
			defer pf.Release()

			app := bootstrap.NewApp(cfg)

			startCtx, cancel := context.WithTimeout(cmd.Context(), app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}

			sig := <-app.Done()
			fmt.Fprintf(cmd.ErrOrStderr(), "received %s, shutting down\n", sig)

			stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
			defer cancelStop()
			return app.Stop(stopCtx)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Start even if the PID file names a running server")

	return cmd
}

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a server is running",
		Long: `Report whether the server named by the PID file is alive. With --server,
ask that server's heartbeat instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL != "" {
				if err := api.NewClient(serverURL, api.WithRetry(0, 0)).Ping(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "✗ Server at %s is not responding: %v\n", serverURL, err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Server at %s is healthy\n", serverURL)
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pf := pidfile.New(cfg.Server.PIDFile)
			if pid, alive := pf.Owner(); alive {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Server is running (PID %d)\n", pid)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✗ Server is not running")
			return nil
		},
	}
}
