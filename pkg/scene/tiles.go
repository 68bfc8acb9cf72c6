package scene

import (
	"sort"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Layout holds the logical tile geometry.
type Layout struct {
	TileSize   float64
	Spacing    float64
	MarginLeft float64
	MarginTop  float64
	Radius     float64
	FontSize   float64
}

func DefaultLayout() Layout {
	return Layout{TileSize: 35, Spacing: 3, MarginLeft: 20, MarginTop: 20, Radius: 4, FontSize: 10}
}

// Position returns the top-left corner of the tile at (row, col).
func (l Layout) Position(row, col int) (x, y float64) {
	step := l.TileSize + l.Spacing
	return float64(col)*step + l.MarginLeft, float64(row)*step + l.MarginTop
}

// Size is the unscaled extent of the whole grid including margins on both sides.
func (l Layout) Size() (w, h float64) {
	rows, cols := provinces.GridSize()
	step := l.TileSize + l.Spacing
	return float64(cols)*step - l.Spacing + 2*l.MarginLeft, float64(rows)*step - l.Spacing + 2*l.MarginTop
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type Stroke struct {
	Width   float64
	Color   colors.Color
	Visible bool
}

const (
	DefaultStrokeWidth  = 2.0
	SelectedStrokeWidth = 4.0
)

// Tile is one retained draw command.
type Tile struct {
	Province provinces.ID
	Name     string
	Label    string
	Rect     Rect
	Fill     colors.Color
	Text     colors.Color
	Stroke   Stroke
	Selected bool
	Stat     *aggregate.ProvinceStat
}

// Build lays out every province in the registry. Provinces without a stat in res
// still get a tile, drawn in the no-data color.
func Build(l Layout, res *aggregate.Result, opt votes.Option, policy *colors.Policy, selected provinces.ID) []Tile {
	all := provinces.All()
	tiles := make([]Tile, 0, len(all))
	for _, p := range all {
		x, y := l.Position(p.Row, p.Col)
		stat := res.Stat(p.ID)
		pair := policy.ColorFor(stat, opt)
		t := Tile{
			Province: p.ID,
			Name:     p.Name,
			Label:    p.Abbr,
			Rect:     Rect{X: x, Y: y, W: l.TileSize, H: l.TileSize},
			Fill:     pair.Fill,
			Text:     pair.Text,
			Stroke:   Stroke{Width: DefaultStrokeWidth},
			Stat:     stat,
		}
		if p.ID == selected && selected != provinces.None {
			t.Selected = true
			t.Stroke = Stroke{Width: SelectedStrokeWidth, Color: policy.Registry.Accent, Visible: true}
		}
		tiles = append(tiles, t)
	}
	// Selected tile last so its stroke is drawn over its neighbours.
	sort.SliceStable(tiles, func(i, j int) bool { return !tiles[i].Selected && tiles[j].Selected })
	return tiles
}

// HitTest finds the tile under a screen point.
func HitTest(tiles []Tile, cam Camera, sx, sy float64) (Tile, bool) {
	wx, wy := cam.ToWorld(sx, sy)
	for i := len(tiles) - 1; i >= 0; i-- {
		if tiles[i].Rect.Contains(wx, wy) {
			return tiles[i], true
		}
	}
	return Tile{}, false
}

// Find returns the tile for a province.
func Find(tiles []Tile, id provinces.ID) (Tile, bool) {
	for _, t := range tiles {
		if t.Province == id {
			return t, true
		}
	}
	return Tile{}, false
}
