package scene

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/sudorandom/vote-grid/pkg/provinces"
)

// GeoJSON exports tiles as polygons in grid space (x right, y down, logical units).
// It is a tile cartogram, not a geographic projection.
func GeoJSON(tiles []Tile) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range tiles {
		r := t.Rect
		ring := [][]float64{
			{r.X, r.Y},
			{r.X + r.W, r.Y},
			{r.X + r.W, r.Y + r.H},
			{r.X, r.Y + r.H},
			{r.X, r.Y},
		}
		f := geojson.NewPolygonFeature([][][]float64{ring})
		f.ID = int(t.Province)
		p, _ := provinces.ByID(t.Province)
		f.SetProperty("name", p.Name)
		f.SetProperty("name_en", p.English)
		f.SetProperty("abbr", p.Abbr)
		f.SetProperty("row", p.Row)
		f.SetProperty("col", p.Col)
		f.SetProperty("country", provinces.Country.Alpha2())
		f.SetProperty("fill", t.Fill.Hex())
		f.SetProperty("text", t.Text.Hex())
		f.SetProperty("selected", t.Selected)
		if t.Stat != nil {
			f.SetProperty("total", t.Stat.Total)
			f.SetProperty("portion", t.Stat.Portion)
			f.SetProperty("winning_option", t.Stat.WinningOption.String())
		}
		fc.AddFeature(f)
	}
	return fc
}
