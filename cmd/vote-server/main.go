package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sudorandom/vote-grid/pkg/app"
	"github.com/sudorandom/vote-grid/pkg/config"
	"github.com/sudorandom/vote-grid/pkg/server"
)

var cli struct {
	Config string `short:"c" help:"Path to a config file (yaml, toml or json). Log level changes are applied live." type:"path"`
	app.Overrides `embed:""`

	Addr string `help:"Listen address; overrides server.addr."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("vote-server"),
		kong.Description("Serve the vote heatmap over HTTP and websockets."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Boot(ctx, cli.Config, cli.Overrides)
	kctx.FatalIfErrorf(err)
	defer func() { _ = a.Close() }()
	log := a.Log
	cfg := a.Config

	if cli.Config != "" {
		config.Watch(cli.Config, func(next *config.Config) {
			lvl, err := zapcore.ParseLevel(next.Log.Level)
			if err != nil {
				log.Warn("Ignoring invalid log level", zap.String("level", next.Log.Level))
				return
			}
			if lvl != a.Level.Level() {
				a.Level.SetLevel(lvl)
				log.Info("Log level changed", zap.Stringer("level", lvl))
			}
		}, func(err error) {
			log.Warn("Failed to reload config", zap.Error(err))
		})
	}

	addr := cfg.Server.Addr
	if cli.Addr != "" {
		addr = cli.Addr
	}

	srv := server.New(server.Options{
		Reducer:  a.Reducer,
		Mode:     cfg.Mode(),
		Log:      log,
		Metrics:  a.Metrics,
		Gatherer: a.Registry,
		GraphQL:  cfg.GraphQLClient(),
		FontPath: cfg.View.FontPath,
	})
	if err := srv.Run(ctx, addr, cfg.Server.ShutdownTimeout); err != nil {
		log.Error("Server stopped", zap.Error(err))
		_ = a.Close()
		os.Exit(1)
	}
}
