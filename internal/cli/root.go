// Package cli holds the pouch command tree.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

type rootOptions struct {
	configFile string
}

// NewRootCommand builds the pouch command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "pouch",
		Short:         "In-process LRU cache with TTL expiry",
		Long:          "pouch runs a bounded LRU cache with per-entry TTL and lazy expiry, driven from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file path (default: ./configs/config.yaml or ./config.yaml)")

	root.AddCommand(
		newDemoCommand(opts),
		newReplCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command with ctx and the process arguments.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	root := NewRootCommand()

	logger := logging.New(root.ErrOrStderr(), slog.LevelInfo)
	ctx = logging.WithLogger(ctx, logger)
	ctx = logging.WithAttrs(ctx, slog.String("app", "pouch"))

	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}
