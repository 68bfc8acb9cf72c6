package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/app"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/loader"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Globals are the flags every subcommand shares.
type Globals struct {
	Config        string `short:"c" help:"Path to a config file (yaml, toml or json)." type:"path"`
	app.Overrides `embed:""`

	Event    string `short:"e" help:"Vote event title. Empty picks the newest; * aggregates every event."`
	Option   string `short:"o" help:"Option key: agree, disagree, abstain, novote or absent. Empty shows the winning option."`
	Selected string `short:"s" help:"Province to highlight."`
}

// state boots the app and reduces it to the requested filter and selection.
func (g *Globals) state(ctx context.Context) (*app.App, dashboard.State, error) {
	a, err := app.Boot(ctx, g.Config, g.Overrides)
	if err != nil {
		return nil, dashboard.State{}, err
	}
	st, err := filtered(a.Reducer, a.Config.Mode(), g.Event, g.Option, g.Selected)
	if err != nil {
		_ = a.Close()
		return nil, dashboard.State{}, err
	}
	return a, st, nil
}

// filtered runs the reducer from its initial state to the given filter.
func filtered(r *dashboard.Reducer, mode aggregate.Mode, event, option, selected string) (dashboard.State, error) {
	st := r.Init(mode)
	switch event {
	case "":
	case "*":
		st = r.Reduce(st, dashboard.SelectEvent{Title: ""})
	default:
		st = r.Reduce(st, dashboard.SelectEvent{Title: event})
	}
	if option != "" && option != "all" {
		o, ok := votes.ParseKey(option)
		if !ok || !o.Valid() {
			return st, fmt.Errorf("unknown option %q", option)
		}
		st = r.Reduce(st, dashboard.SelectOption{Option: o})
	}
	if selected != "" {
		id, ok := provinces.Resolve(selected)
		if !ok {
			return st, fmt.Errorf("unknown province %q", selected)
		}
		st = r.Reduce(st, dashboard.ClickProvince{Province: id})
	}
	return st, nil
}

// output opens path, or stdout when path is empty or "-".
func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type SVGCmd struct {
	Out string `arg:"" optional:"" help:"Output file. Defaults to stdout." type:"path"`
}

func (c *SVGCmd) Run(g *Globals) error {
	a, st, err := g.state(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w, err := output(c.Out)
	if err != nil {
		return err
	}
	defer w.Close()
	return scene.EncodeSVG(w, st.Tiles, scene.SVGOptions{Layout: app.Layout(a.Config), Title: st.Filter.Event})
}

type PNGCmd struct {
	Out   string  `arg:"" optional:"" help:"Output file. Defaults to stdout." type:"path"`
	Scale float64 `help:"Pixel density multiplier." default:"2"`
}

func (c *PNGCmd) Run(g *Globals) error {
	a, st, err := g.state(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w, err := output(c.Out)
	if err != nil {
		return err
	}
	defer w.Close()
	return scene.EncodePNG(w, st.Tiles, scene.RasterOptions{
		Layout:     app.Layout(a.Config),
		Background: a.Reducer.Policy.Registry.Base.RGBA(),
		FontPath:   a.Config.View.FontPath,
		Scale:      c.Scale,
	})
}

type GeoJSONCmd struct {
	Out string `arg:"" optional:"" help:"Output file. Defaults to stdout." type:"path"`
}

func (c *GeoJSONCmd) Run(g *Globals) error {
	a, st, err := g.state(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w, err := output(c.Out)
	if err != nil {
		return err
	}
	defer w.Close()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scene.GeoJSON(st.Tiles))
}

type ReportCmd struct {
	All bool `help:"Include provinces without data."`
}

func (c *ReportCmd) Run(g *Globals) error {
	a, st, err := g.state(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return writeReport(os.Stdout, a.Reducer, st, c.All)
}

type SyncCmd struct {
	Dir string `arg:"" help:"Directory to write the collections into." type:"path"`
}

// Run snapshots the configured source (HTTP, GraphQL or another directory) to Dir.
func (c *SyncCmd) Run(g *Globals) error {
	cfg, log, _, err := app.Configure(g.Config, g.Overrides)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.Timeout)
	defer cancel()
	src, closer, err := cfg.OpenSource(ctx, log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	return loader.Mirror(ctx, src, c.Dir, log)
}

type ValidateCmd struct{}

func (c *ValidateCmd) Run(g *Globals) error {
	if err := provinces.Validate(provinces.All()); err != nil {
		return err
	}
	rows, cols := provinces.GridSize()
	fmt.Printf("%d provinces on a %dx%d grid\n", provinces.Count(), rows, cols)
	return nil
}

var cli struct {
	Globals `embed:""`

	SVG      SVGCmd      `cmd:"" name:"svg" help:"Render the map as SVG."`
	PNG      PNGCmd      `cmd:"" name:"png" help:"Render the map as PNG."`
	GeoJSON  GeoJSONCmd  `cmd:"" name:"geojson" help:"Export the tiles as a GeoJSON feature collection."`
	Report   ReportCmd   `cmd:"" help:"Print a per-province table."`
	Sync     SyncCmd     `cmd:"" help:"Download every collection into a directory."`
	Validate ValidateCmd `cmd:"" help:"Check the province grid for duplicate names and cells."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("vote-render"),
		kong.Description("Render the vote heatmap without a window."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals))
}
