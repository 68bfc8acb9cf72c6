package scene

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

func id(t *testing.T, name string) provinces.ID {
	t.Helper()
	v, ok := provinces.Lookup(name)
	require.True(t, ok, name)
	return v
}

func sampleResult() *aggregate.Result {
	ds := &votes.Dataset{Details: []votes.VoteDetailData{
		{Title: "Bill A", Province: "ภูเก็ต", PersonName: "ก", Option: "เห็นด้วย"},
		{Title: "Bill A", Province: "ภูเก็ต", PersonName: "ข", Option: "ไม่เห็นด้วย"},
		{Title: "Bill A", Province: "ภูเก็ต", PersonName: "ค", Option: "เห็นด้วย"},
	}}
	return aggregate.Aggregate(ds, aggregate.Filter{Event: "Bill A"}, aggregate.ModeDetailed)
}

func TestCameraScaleOneResetsTranslation(t *testing.T) {
	c := NewCamera()
	c.SetScale(3)
	c.Pan(120, -40)
	assert.Equal(t, 120.0, c.X)

	c.SetScale(1)
	assert.Equal(t, Camera{Scale: 1}, c)

	c.SetScale(4)
	c.Pan(50, 50)
	c.Zoom(0.1, 300, 300)
	assert.Equal(t, Camera{Scale: 1}, c, "zooming out past the minimum lands at the origin")

	c.Pan(10, 10)
	assert.Equal(t, Camera{Scale: 1}, c, "no panning while fully zoomed out")
}

func TestCameraClamp(t *testing.T) {
	c := NewCamera()
	c.SetScale(100)
	assert.Equal(t, MaxScale, c.Scale)
	c.SetScale(0.2)
	assert.Equal(t, MinScale, c.Scale)

	var zero Camera
	zero.Pan(5, 5)
	assert.Equal(t, Camera{Scale: 1}, zero)
}

func TestCameraZoomKeepsPointFixed(t *testing.T) {
	c := NewCamera()
	wx, wy := c.ToWorld(200, 100)
	c.Zoom(2, 200, 100)
	sx, sy := c.ToScreen(wx, wy)
	assert.InDelta(t, 200, sx, 1e-9)
	assert.InDelta(t, 100, sy, 1e-9)
	assert.Equal(t, 2.0, c.Scale)
}

func TestLayoutPosition(t *testing.T) {
	l := DefaultLayout()
	x, y := l.Position(0, 0)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 20.0, y)
	x, y = l.Position(9, 3)
	assert.Equal(t, 3*38.0+20, x)
	assert.Equal(t, 9*38.0+20, y)

	w, h := l.Size()
	assert.Equal(t, 9*38.0-3+40, w)
	assert.Equal(t, 18*38.0-3+40, h)
}

func TestBuildTiles(t *testing.T) {
	policy := colors.NewPolicy(nil, colors.Gradient{})
	phuket := id(t, "ภูเก็ต")
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, phuket)
	require.Len(t, tiles, provinces.Count())

	last := tiles[len(tiles)-1]
	assert.Equal(t, phuket, last.Province, "selected tile is drawn last")
	assert.True(t, last.Selected)
	assert.Equal(t, SelectedStrokeWidth, last.Stroke.Width)
	assert.Equal(t, policy.Registry.Accent, last.Stroke.Color)
	assert.NotNil(t, last.Stat)
	assert.Equal(t, Rect{X: 20, Y: 14*38 + 20, W: 35, H: 35}, last.Rect)

	selected := 0
	for _, tile := range tiles {
		if tile.Selected {
			selected++
			continue
		}
		assert.False(t, tile.Stroke.Visible)
		assert.Equal(t, DefaultStrokeWidth, tile.Stroke.Width)
		if tile.Stat == nil {
			assert.Equal(t, policy.NoData().Fill, tile.Fill)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestHitTest(t *testing.T) {
	policy := colors.NewPolicy(nil, nil)
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, provinces.None)

	cam := NewCamera()
	got, ok := HitTest(tiles, cam, 25, 14*38+25)
	require.True(t, ok)
	assert.Equal(t, id(t, "ภูเก็ต"), got.Province)

	_, ok = HitTest(tiles, cam, 56, 56)
	assert.False(t, ok, "spacing between tiles is not a hit")

	cam.SetScale(2)
	got, ok = HitTest(tiles, cam, 50, 14*38*2+50)
	require.True(t, ok)
	assert.Equal(t, id(t, "ภูเก็ต"), got.Province)
}

func TestHoverDoesNotSelect(t *testing.T) {
	policy := colors.NewPolicy(nil, nil)
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, provinces.None)
	roster := func(provinces.ID) []aggregate.Member { return []aggregate.Member{{}} }

	c := NewController()
	changed := c.PointerAt(tiles, Point{25, 14*38 + 25}, roster)
	assert.True(t, changed)
	assert.True(t, c.Tooltip.Visible)
	assert.Equal(t, id(t, "ภูเก็ต"), c.Tooltip.Province)
	assert.Len(t, c.Tooltip.MPs, 1)
	assert.Equal(t, provinces.None, c.Selected)

	changed = c.PointerAt(tiles, Point{30, 14*38 + 30}, roster)
	assert.False(t, changed)
	assert.Equal(t, Point{30, 14*38 + 30}, c.Tooltip.Position)

	changed = c.PointerAt(tiles, Point{-100, -100}, roster)
	assert.True(t, changed)
	assert.False(t, c.Tooltip.Visible)
	assert.Equal(t, provinces.None, c.Selected)
}

func TestPointerMoveWhileHidden(t *testing.T) {
	c := NewController()
	c.PointerMove(Point{5, 5})
	assert.Equal(t, Point{}, c.Tooltip.Position)
}

func TestClickToggles(t *testing.T) {
	c := NewController()
	a, b := id(t, "ตาก"), id(t, "ยะลา")
	calls := 0
	roster := func(p provinces.ID) []aggregate.Member {
		calls++
		return []aggregate.Member{{Person: votes.PersonData{PersonName: p.Name()}}}
	}

	sel := c.Click(a, roster)
	assert.Equal(t, a, sel.Province)
	require.Len(t, sel.MPs, 1)
	assert.Equal(t, "ตาก", sel.MPs[0].Person.PersonName)

	sel = c.Click(b, roster)
	assert.Equal(t, b, sel.Province)
	assert.Equal(t, b, c.Selected)

	sel = c.Click(b, roster)
	assert.True(t, sel.Empty())
	assert.Empty(t, sel.MPs)
	assert.Equal(t, provinces.None, c.Selected)
	assert.Equal(t, 2, calls)
}

func TestPlaceTooltip(t *testing.T) {
	cases := []struct {
		name      string
		pointer   Point
		width     float64
		container float64
		wantX     float64
	}{
		{"scenario c flips left", Point{650, 100}, 280, 800, 355},
		{"fits on the right", Point{100, 100}, 280, 800, 115},
		{"exactly fits", Point{505, 0}, 280, 800, 520},
		{"one past flips", Point{506, 0}, 280, 800, 211},
	}
	for _, tc := range cases {
		got := PlaceTooltip(tc.pointer, tc.width, tc.container)
		if got.X != tc.wantX {
			t.Errorf("%s: x = %v, want %v", tc.name, got.X, tc.wantX)
		}
		if got.Y != tc.pointer.Y+TooltipOffset {
			t.Errorf("%s: y = %v, want %v", tc.name, got.Y, tc.pointer.Y+TooltipOffset)
		}
	}
}

func TestEncodeSVG(t *testing.T) {
	policy := colors.NewPolicy(nil, nil)
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, id(t, "ภูเก็ต"))

	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, tiles, SVGOptions{Layout: DefaultLayout(), Camera: NewCamera(), Title: "Bill <A>"}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, "<title>Bill &lt;A&gt;</title>")
	assert.Equal(t, provinces.Count(), strings.Count(out, "<rect "))
	assert.Contains(t, out, `stroke="#ff6b00" stroke-width="4"`)
	assert.Contains(t, out, `rx="4"`)
	assert.Contains(t, out, ">ภก</text>")
}

func TestRasterize(t *testing.T) {
	policy := colors.NewPolicy(nil, nil)
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, provinces.None)

	img, err := Rasterize(tiles, RasterOptions{Layout: DefaultLayout(), Camera: NewCamera()})
	require.NoError(t, err)
	w, h := DefaultLayout().Size()
	assert.Equal(t, int(w), img.Bounds().Dx())
	assert.Equal(t, int(h), img.Bounds().Dy())

	// Top-left corner of the map is margin, so background.
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})

	// Centre-left of the เชียงราย tile (row 0, col 2) is the no-data fill.
	px := img.RGBAAt(2*38+20+3, 20+17)
	assert.Equal(t, policy.NoData().Fill.RGBA(), px)
}

func TestGeoJSON(t *testing.T) {
	policy := colors.NewPolicy(nil, nil)
	tiles := Build(DefaultLayout(), sampleResult(), votes.OptionUnknown, policy, provinces.None)
	fc := GeoJSON(tiles)
	require.Len(t, fc.Features, provinces.Count())

	raw, err := fc.MarshalJSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded["type"])

	for _, f := range fc.Features {
		if f.Properties["name"] == "ภูเก็ต" {
			assert.Equal(t, "TH", f.Properties["country"])
			assert.Equal(t, 3.0, f.Properties["total"])
			return
		}
	}
	t.Fatal("ภูเก็ต feature missing")
}
