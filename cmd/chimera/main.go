package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/chimera/internal/cli"
	"github.com/example/chimera/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "chimera",
		Short:   "Chimera - operations console for the Chimera database",
		Version: version.String(),
		Long: `Chimera is a menu-driven client for the Chimera database.
Every operation validates its inputs first and runs as one transaction.`,
		Args: cobra.NoArgs,
		RunE: cli.RunMenu,
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.MenuCmd())
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.OpsCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DBCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
