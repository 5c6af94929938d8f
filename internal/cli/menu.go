package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/chimera/internal/adapters/cli"
	"github.com/example/chimera/internal/config"
	"github.com/example/chimera/internal/ctxutil"
	"github.com/example/chimera/internal/logging"
	"github.com/example/chimera/internal/ports/primary"
	"github.com/example/chimera/internal/wire"
)

func tag(attrs ...color.Attribute) func(a ...any) string {
	return color.New(attrs...).SprintFunc()
}

var (
	successTag = tag(color.FgGreen, color.Bold)
	infoTag    = tag(color.FgCyan)
	errorTag   = tag(color.FgRed, color.Bold)
)

// MenuCmd returns the interactive menu command.
func MenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Log in and run operations from a numbered menu",
		Long: `Log in to the Chimera database and pick operations from a numbered menu.
Each operation prompts for its inputs and runs as one transaction.
This is the default when chimera is run without a subcommand.`,
		Args: cobra.NoArgs,
		RunE: RunMenu,
	}
}

// RunMenu starts the interactive shell on the terminal.
func RunMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	prompter, err := newReadlinePrompter()
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer prompter.Close()

	return NewShell(prompter, cmd.OutOrStdout()).Start(cmd.Context(), cfg)
}

// connectFunc opens the database described by cfg and returns an adapter
// writing to out, plus a function releasing the connection.
type connectFunc func(cfg *config.Config, out io.Writer) (*cliadapter.OperationAdapter, func() error, error)

// Shell is the login prompt plus the menu loop.
type Shell struct {
	prompter Prompter
	out      io.Writer
	connect  connectFunc
}

// NewShell creates a Shell connected through the wire package.
func NewShell(prompter Prompter, out io.Writer) *Shell {
	return &Shell{
		prompter: prompter,
		out:      out,
		connect:  connectWire,
	}
}

func connectWire(cfg *config.Config, out io.Writer) (*cliadapter.OperationAdapter, func() error, error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	wire.Configure(cfg, logger)
	adapter, err := wire.OperationAdapterWithOutput(out)
	if err != nil {
		return nil, nil, err
	}
	return adapter, func() error {
		_ = logger.Sync()
		return wire.Close()
	}, nil
}

// Start logs in, connects, and runs the menu until the operator quits.
// A failed connection ends the session.
func (s *Shell) Start(ctx context.Context, cfg *config.Config) error {
	if cfg.NeedsLogin() {
		var err error
		if cfg, err = s.login(cfg); err != nil {
			return err
		}
	}

	adapter, closeFn, err := s.connect(cfg, s.out)
	if err != nil {
		fmt.Fprintf(s.out, "\n%s Could not connect to %s: %v\n", errorTag("[ERROR]"), cfg.Target(), err)
		fmt.Fprintf(s.out, "%s Application cannot start without a database connection.\n", errorTag("[FATAL]"))
		return fmt.Errorf("failed to connect: %w", err)
	}
	fmt.Fprintf(s.out, "\n%s Database connection established.\n", successTag("[SUCCESS]"))
	defer func() {
		if err := closeFn(); err != nil {
			fmt.Fprintf(s.out, "%s %v\n", errorTag("[ERROR]"), err)
			return
		}
		fmt.Fprintf(s.out, "%s Database connection closed.\n", infoTag("[INFO]"))
	}()

	if cfg.User != "" {
		ctx = ctxutil.WithOperator(ctx, cfg.User)
	}
	s.loop(ctx, adapter)
	return nil
}

func (s *Shell) login(cfg *config.Config) (*config.Config, error) {
	fmt.Fprintln(s.out, "--- Chimera Database Login ---")
	fmt.Fprintf(s.out, "Host: %s:%d  Database: %s\n", cfg.Host, cfg.Port, cfg.Database)

	user := cfg.User
	if user == "" {
		line, err := s.prompter.ReadLine("Username: ")
		if err != nil {
			return nil, fmt.Errorf("login aborted: %w", err)
		}
		user = strings.TrimSpace(line)
	}
	password := cfg.Password
	if password == "" {
		pw, err := s.prompter.ReadPassword("Password: ")
		if err != nil {
			return nil, fmt.Errorf("login aborted: %w", err)
		}
		password = pw
	}
	return cfg.WithCredentials(user, password), nil
}

func (s *Shell) loop(ctx context.Context, adapter *cliadapter.OperationAdapter) {
	for {
		adapter.Menu()

		line, err := s.prompter.ReadLine("Enter your choice: ")
		if err != nil {
			fmt.Fprintf(s.out, "\n%s Exiting application...\n", infoTag("[INFO]"))
			return
		}
		choice := strings.TrimSpace(line)
		if strings.EqualFold(choice, "q") {
			fmt.Fprintf(s.out, "%s Exiting application...\n", infoTag("[INFO]"))
			return
		}

		op, ok := adapter.Lookup(choice)
		if !ok {
			fmt.Fprintf(s.out, "%s Invalid choice.\n", errorTag("[ERROR]"))
			continue
		}

		adapter.Title(op)
		params, err := s.collect(op)
		if errors.Is(err, errCancelled) {
			fmt.Fprintf(s.out, "\n%s Cancelled.\n", infoTag("[INFO]"))
			continue
		}
		if err != nil {
			fmt.Fprintf(s.out, "\n%s Exiting application...\n", infoTag("[INFO]"))
			return
		}

		// Run has already printed any failure.
		_ = adapter.Run(ctx, op.ID, params)
	}
}

// collect prompts for each parameter that applies to what was entered so far.
// Blank answers are left out so defaults and optionals take effect.
func (s *Shell) collect(op primary.OperationInfo) (map[string]string, error) {
	params := make(map[string]string, len(op.Params))
	for _, p := range op.Params {
		if p.Applies != nil && !p.Applies(params) {
			continue
		}
		prompt := p.Prompt
		if p.Default != "" {
			prompt += fmt.Sprintf(" [%s]", p.Default)
		}
		line, err := s.prompter.ReadLine(prompt + ": ")
		if err != nil {
			return nil, err
		}
		if v := strings.TrimSpace(line); v != "" {
			params[p.Name] = v
		}
	}
	return params, nil
}
