package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/app"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/viewer"
)

var cli struct {
	Config string `short:"c" help:"Path to a config file (yaml, toml or json)." type:"path"`
	app.Overrides `embed:""`

	Width      int    `help:"Window width; overrides view.width."`
	Height     int    `help:"Window height; overrides view.height."`
	TPS        int    `name:"tps" help:"Ticks per second." default:"30"`
	CaptureDir string `name:"capture-dir" help:"Directory for screenshots taken with P." type:"path" default:"captures"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("vote-viewer"),
		kong.Description("Interactive Thai parliamentary vote heatmap."),
		kong.UsageOnError(),
	)

	a, err := app.Boot(context.Background(), cli.Config, cli.Overrides)
	kctx.FatalIfErrorf(err)
	defer func() { _ = a.Close() }()
	log := a.Log

	width, height := a.Config.View.Width, a.Config.View.Height
	if cli.Width > 0 {
		width = cli.Width
	}
	if cli.Height > 0 {
		height = cli.Height
	}

	sess := dashboard.NewSession(a.Reducer, a.Config.Mode(),
		dashboard.WithID("viewer"),
		dashboard.WithLogger(log),
		dashboard.WithMetrics(a.Metrics),
	)
	sess.OnSelect = func(sel scene.Selection) {
		if sel.Empty() {
			log.Info("Selection cleared")
			return
		}
		log.Info("Province selected", zap.String("province", sel.Province.Name()), zap.Int("mps", len(sel.MPs)))
	}

	engine, err := viewer.NewEngine(sess, width, height, a.Config.View.FontPath, log)
	if err != nil {
		log.Fatal("Failed to initialize viewer", zap.Error(err))
	}
	engine.CaptureDir = cli.CaptureDir

	ebiten.SetTPS(cli.TPS)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(engine.Title)
	if err := ebiten.RunGame(engine); err != nil {
		log.Fatal("Viewer stopped", zap.Error(err))
	}
}
