package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/chimera/internal/config"
)

// AddGlobalFlags registers the connection flags shared by every command.
// Flags that are set override CHIMERA_* variables and .env values.
func AddGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("env-dir", ".", "Directory holding an optional .env file")
	pf.String("driver", "", "Database driver (mysql, sqlite)")
	pf.String("host", "", "MySQL host")
	pf.Int("port", 0, "MySQL port")
	pf.String("database", "", "MySQL database name")
	pf.String("user", "", "MySQL user (skips the username prompt)")
	pf.String("sqlite-path", "", "SQLite database file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.Bool("no-color", false, "Disable colored output")
}

// loadConfig builds the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	dir, _ := flags.GetString("env-dir")
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("driver") {
		cfg.Driver, _ = flags.GetString("driver")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("database") {
		cfg.Database, _ = flags.GetString("database")
	}
	if flags.Changed("user") {
		cfg.User, _ = flags.GetString("user")
	}
	if flags.Changed("sqlite-path") {
		cfg.SqlitePath, _ = flags.GetString("sqlite-path")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		color.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
