package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/api"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/queries"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/bootstrap"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/logging"
)

// catalog is what the items commands need, either in process or from a server
type catalog interface {
	ListItems(ctx context.Context) ([]string, error)
	AddItem(ctx context.Context, name string) (*commands.AddItemResponse, error)
}

// localCatalog sends item requests through an in-process dispatcher
type localCatalog struct {
	sender mediator.Sender
}

func (c localCatalog) ListItems(ctx context.Context) ([]string, error) {
	return mediator.Send(ctx, c.sender, queries.ListItemsQuery{})
}

func (c localCatalog) AddItem(ctx context.Context, name string) (*commands.AddItemResponse, error) {
	return mediator.Send(ctx, c.sender, commands.AddItemCommand{Name: name})
}

// NewItemsCommand creates the items command with subcommands
func NewItemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and add catalog items",
		Long: `List and add catalog items.

Without --server the requests go through an in-process mediator against the
configured store. With the default in-memory store, added items only live for
the duration of the command. With --server they are sent to a running server.

Examples:
  simpleapi items list
  simpleapi items list --json
  simpleapi items add --name Item4
  simpleapi --server http://localhost:8080 items add --name Item4 --token $TOKEN`,
	}

	cmd.AddCommand(newItemsListCommand())
	cmd.AddCommand(newItemsAddCommand())

	return cmd
}

func newItemsListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List item names in catalog order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), "", func(ctx context.Context, c catalog) error {
				names, err := c.ListItems(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return json.NewEncoder(out).Encode(names)
				}
				if len(names) == 0 {
					fmt.Fprintln(out, "No items")
					return nil
				}
				for i, name := range names {
					fmt.Fprintf(out, "%3d  %s\n", i+1, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the names as a JSON array")

	return cmd
}

func newItemsAddCommand() *cobra.Command {
	var name, token string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), token, func(ctx context.Context, c catalog) error {
				resp, err := c.AddItem(ctx, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s at position %d (id %s)\n", resp.Name, resp.Position, resp.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name (required)")
	cmd.Flags().StringVar(&token, "token", os.Getenv("SIMPLEAPI_TOKEN"), "Bearer token for --server")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// withCatalog runs fn against the server named by --server, or else against
// an in-process dispatcher built from config
func withCatalog(ctx context.Context, token string, fn func(context.Context, catalog) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if serverURL != "" {
		return fn(ctx, api.NewClient(serverURL, api.WithToken(token)))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runWithDispatcher(ctx, cfg, func(ctx context.Context, s mediator.Sender) error {
		return fn(ctx, localCatalog{sender: s})
	})
}

// runWithDispatcher builds the store and dispatcher from cfg, runs fn in a
// fresh scope and tears everything down again
func runWithDispatcher(ctx context.Context, cfg *config.Config, fn func(context.Context, mediator.Sender) error) error {
	logger, err := newCommandLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, release, err := bootstrap.NewItemRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	reg, err := bootstrap.NewRegistry(cfg, repo, logger)
	if err != nil {
		return err
	}
	d := bootstrap.NewDispatcher(reg, nil, logger)
	defer d.Close()

	scope := mediator.NewScope()
	defer scope.Close()

	return fn(mediator.WithScope(ctx, scope), d)
}

// newCommandLogger keeps one-shot commands quiet unless --verbose is set.
// Logs go to stderr so they never mix with command output.
func newCommandLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.Logging
	if !verbose {
		lc.Level = "warn"
	}
	if lc.Output == "stdout" {
		lc.Output = "stderr"
	}
	return logging.NewLogger(lc)
}
