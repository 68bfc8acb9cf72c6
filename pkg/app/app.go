// Package app wires configuration, logging, metrics and the data load shared by
// every command.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/config"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/loader"
	"github.com/sudorandom/vote-grid/pkg/logging"
	"github.com/sudorandom/vote-grid/pkg/metrics"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Overrides are command-line flags that take precedence over the config file and
// environment. Zero values leave the configured value alone.
type Overrides struct {
	DataDir  string `name:"data-dir" help:"Directory holding the JSON collections." type:"path"`
	DataURL  string `name:"data-url" help:"Base URL serving the JSON collections."`
	Live     bool   `help:"Build collections from the GraphQL API."`
	Mode     string `help:"Aggregation mode (fact or detailed)."`
	Strategy string `help:"Color strategy (auto, gradient or 3bin)."`
	LogLevel string `name:"log-level" help:"Log level."`
}

func (o Overrides) apply(cfg *config.Config) {
	if o.DataDir != "" {
		cfg.Data.Dir = o.DataDir
	}
	if o.DataURL != "" {
		cfg.Data.URL = o.DataURL
	}
	if o.Live {
		cfg.Data.Live = true
	}
	if o.Mode != "" {
		cfg.View.Mode = o.Mode
	}
	if o.Strategy != "" {
		cfg.View.Strategy = o.Strategy
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
}

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Level    zap.AtomicLevel
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	Dataset  *votes.Dataset
	Reducer  *dashboard.Reducer

	closer io.Closer
}

// Boot loads configuration from path (empty means defaults and environment only),
// applies o, then loads the dataset. A failed collection degrades to empty data;
// only configuration and cache errors are fatal.
func Boot(ctx context.Context, path string, o Overrides) (*App, error) {
	cfg, log, level, err := Configure(path, o)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Data.Timeout)
	defer cancel()

	src, closer, err := cfg.OpenSource(loadCtx, log, m)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	ds := loader.LoadAll(loadCtx, src, log, m)
	strategy := cfg.Strategy()
	log.Info("Dashboard ready",
		zap.Int("events", len(ds.Events())),
		zap.String("mode", cfg.View.Mode),
		zap.String("strategy", strategy.Name()))

	return &App{
		Config:   cfg,
		Log:      log,
		Level:    level,
		Registry: reg,
		Metrics:  m,
		Dataset:  ds,
		Reducer:  dashboard.NewReducer(ds, colors.NewPolicy(nil, strategy), Layout(cfg)),
		closer:   closer,
	}, nil
}

// Configure loads and validates configuration and builds the logger, without
// touching any data source.
func Configure(path string, o Overrides) (*config.Config, *zap.Logger, zap.AtomicLevel, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, zap.AtomicLevel{}, err
	}
	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, zap.AtomicLevel{}, fmt.Errorf("invalid config: %w", err)
	}
	log, level, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, zap.AtomicLevel{}, err
	}
	return cfg, log, level, nil
}

// Layout is the default tile geometry at the configured tile size.
func Layout(cfg *config.Config) scene.Layout {
	l := scene.DefaultLayout()
	l.TileSize = cfg.View.TileSize
	return l
}

func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
