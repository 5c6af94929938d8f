package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/chimera/internal/config"
	"github.com/example/chimera/internal/db"
)

// DBCmd returns the db command
func DBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage a local development database",
	}
	cmd.AddCommand(dbInitCmd())
	return cmd
}

func dbInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the Chimera schema in a SQLite database",
		Long: `Create the Chimera reference schema in the SQLite database at --sqlite-path
(or CHIMERA_SQLITE_PATH). With --seed, also load the development fixtures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			seed, _ := cmd.Flags().GetBool("seed")
			schemaFile, _ := cmd.Flags().GetString("schema-file")

			return dbInit(cmd.Context(), afero.NewOsFs(), cfg, schemaFile, seed, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("seed", false, "Load development fixtures after creating the schema")
	cmd.Flags().String("schema-file", "", "Read the schema from this file instead of the built-in one")
	return cmd
}

func dbInit(ctx context.Context, fs afero.Fs, cfg *config.Config, schemaFile string, seed bool, out io.Writer) error {
	if cfg.Driver != config.DriverSQLite {
		return fmt.Errorf("db init only provisions SQLite databases (driver is %s)", cfg.Driver)
	}

	schema, err := db.LoadSchema(fs, schemaFile)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Fprintf(out, "Initializing Chimera database at %s\n", cfg.SqlitePath)

	if err := db.InitSchema(ctx, database, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	fmt.Fprintln(out, "✓ Schema created")

	if seed {
		if err := db.SeedFixtures(ctx, database); err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		fmt.Fprintln(out, "✓ Fixtures loaded")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  chimera --driver sqlite --sqlite-path %s\n", cfg.SqlitePath)
	return nil
}
