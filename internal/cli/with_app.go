package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/serroba/pouch/internal/bootstrap"
	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
)

const lifecycleTimeout = 10 * time.Second

func withApp(opts *rootOptions, run func(cmd *cobra.Command, app *bootstrap.App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", opts.configFile),
		)

		var app *bootstrap.App
		fxApp := fx.New(
			bootstrap.Runtime(ctx, opts.configFile, cmd.ErrOrStderr()),
			fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
				l := &fxevent.SlogLogger{Logger: logger}
				l.UseLogLevel(slog.LevelDebug)
				return l
			}),
			fx.Populate(&app),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, lifecycleTimeout)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			return errs.Wrap(err, "start application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), lifecycleTimeout)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		cmd.SetContext(logging.WithLogger(ctx, app.Logger))

		if err := run(cmd, app); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
