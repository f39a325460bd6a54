// Package bootstrap assembles the pouch runtime: configuration, logger and
// the cache client, wired with fx.
package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"go.uber.org/fx"

	"github.com/serroba/pouch/client"
	"github.com/serroba/pouch/internal/bootstrap/config"
	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
)

// App is what commands receive once the runtime is started.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Client *client.Client[string, string]
}

// Module provides the config, logger, cache client and App.
var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideLogger),
	fx.Provide(provideClient),
	fx.Provide(provideApp),
)

// Runtime supplies the values Module needs from the caller: the root context,
// the config file path (empty for the default search) and the log sink.
func Runtime(ctx context.Context, configFile string, logOutput io.Writer) fx.Option {
	return fx.Options(
		Module,
		fx.Provide(func() context.Context { return ctx }),
		fx.Provide(
			fx.Annotate(
				func() string { return configFile },
				fx.ResultTags(`name:"configFile"`),
			),
		),
		fx.Provide(
			fx.Annotate(
				func() io.Writer { return logOutput },
				fx.ResultTags(`name:"logOutput"`),
			),
		),
	)
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap"))

	cfg, err := config.Load(ctx, p.ConfigFile)
	if err != nil {
		return config.Config{}, errs.Wrap(err, "load config")
	}
	return cfg, nil
}

type loggerParams struct {
	fx.In

	Config config.Config
	Output io.Writer `name:"logOutput"`
}

func provideLogger(p loggerParams) (*slog.Logger, error) {
	level, err := logging.ParseLevel(p.Config.Log.Level)
	if err != nil {
		return nil, errs.Wrap(err, "parse log level")
	}
	return logging.New(p.Output, level), nil
}

func provideClient(lc fx.Lifecycle, ctx context.Context, cfg config.Config, logger *slog.Logger) (*client.Client[string, string], error) {
	logCtx := logging.WithAttrs(logging.WithLogger(ctx, logger), slog.String("component", "bootstrap"))

	c, err := client.New[string, string](logCtx, cfg.Client.Host, cfg.Client.Port, cfg.Cache.Capacity, cfg.Cache.TTL)
	if err != nil {
		return nil, errs.Wrap(err, "build client")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			stats := c.Cache().Stats()
			logging.Info(logCtx, "client stopped",
				slog.Int("entries", c.Cache().Len()),
				slog.Uint64("hits", stats.Hits),
				slog.Uint64("misses", stats.Misses),
				slog.Uint64("evictions", stats.Evictions),
				slog.Uint64("expirations", stats.Expirations),
			)
			return nil
		},
	})

	return c, nil
}

func provideApp(cfg config.Config, logger *slog.Logger, c *client.Client[string, string]) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Client: c,
	}
}
