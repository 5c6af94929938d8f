package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/chimera/internal/ctxutil"
	"github.com/example/chimera/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [operation]",
		Short: "Run one operation without the menu",
		Long: `Run one catalog operation, given by id or menu number, and exit.

Examples:
  chimera run personnel.by-rank --param rank=Grunt
  chimera run 15 -p mission_id=2 -p status=Completed`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetStringArray("param")
			params, err := parseParams(raw)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.NeedsLogin() && cfg.User == "" {
				return fmt.Errorf("a database user is required: set CHIMERA_USER or --user")
			}

			adapter, closeFn, err := connectWire(cfg, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", cfg.Target(), err)
			}
			defer closeFn()

			operationID := args[0]
			if op, ok := adapter.Lookup(operationID); ok {
				operationID = op.ID
			}

			ctx := ctxutil.WithOperator(cmd.Context(), cfg.User)
			return adapter.Run(ctx, operationID, params)
		},
	}

	cmd.Flags().StringArrayP("param", "p", nil, "Operation parameter as name=value (repeatable)")
	return cmd
}

// OpsCmd returns the ops command
func OpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operation catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).List()
			return nil
		},
	}
}

// parseParams turns name=value pairs into a parameter map.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", pair)
		}
		if _, dup := params[name]; dup {
			return nil, fmt.Errorf("parameter %q given more than once", name)
		}
		params[name] = value
	}
	return params, nil
}
