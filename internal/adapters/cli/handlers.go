package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/bootstrap"
)

// NewHandlersCommand creates the handlers command
func NewHandlersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handlers",
		Short: "List the request bindings discovery produces",
		Long: `Run handler discovery with the configured default lifetime and print one
line per request type: its response type, the handler bound to it and the
lifetime the handler is constructed with.

Discovery errors (duplicate handlers for one request type) are reported the
same way the server would report them at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Factories are never invoked here, the store only satisfies the constructors
			reg, err := bootstrap.NewRegistry(cfg, persistence.NewMemoryItemRepository(), zap.NewNop())
			if err != nil {
				return err
			}

			printBindings(cmd, reg.Bindings())
			return nil
		},
	}

	return cmd
}

func printBindings(cmd *cobra.Command, bindings []mediator.Binding) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REQUEST\tRESPONSE\tHANDLER\tLIFETIME")
	fmt.Fprintln(w, "-------\t--------\t-------\t--------")

	for _, b := range bindings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.RequestType, b.ResponseType, b.Handler, b.Lifetime)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d binding(s)\n", len(bindings))
}
