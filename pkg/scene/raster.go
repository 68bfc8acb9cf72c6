package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type RasterOptions struct {
	Layout     Layout
	Camera     Camera
	Width      int
	Height     int
	Background color.Color
	// FontPath is a TTF/OTF with Thai glyphs. Empty falls back to Go Regular.
	FontPath string
	// Scale multiplies every logical unit; 2 renders a retina-sized image.
	Scale float64
}

// LoadFace opens a font face at the given pixel size.
func LoadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Rasterize draws tiles into an RGBA image.
func Rasterize(tiles []Tile, opts RasterOptions) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	gw, gh := opts.Layout.Size()
	if opts.Width <= 0 {
		opts.Width = int(math.Ceil(gw * opts.Scale))
	}
	if opts.Height <= 0 {
		opts.Height = int(math.Ceil(gh * opts.Scale))
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	cam := opts.Camera
	cam.normalize()
	cam.Scale *= opts.Scale
	cam.X *= opts.Scale
	cam.Y *= opts.Scale

	face, err := LoadFace(opts.FontPath, opts.Layout.FontSize*cam.Scale)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	radius := opts.Layout.Radius * cam.Scale
	for _, t := range tiles {
		x, y := cam.ToScreen(t.Rect.X, t.Rect.Y)
		w, h := t.Rect.W*cam.Scale, t.Rect.H*cam.Scale
		if t.Stroke.Visible {
			sw := t.Stroke.Width * cam.Scale / 2
			fillRoundedRect(img, x-sw, y-sw, w+2*sw, h+2*sw, radius+sw, t.Stroke.Color.RGBA())
		}
		fillRoundedRect(img, x, y, w, h, radius, t.Fill.RGBA())
		drawCenteredText(img, face, t.Label, x+w/2, y+h/2, t.Text.RGBA())
	}
	return img, nil
}

// EncodePNG rasterizes tiles and writes a PNG.
func EncodePNG(w io.Writer, tiles []Tile, opts RasterOptions) error {
	img, err := Rasterize(tiles, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func fillRoundedRect(dst *image.RGBA, x, y, w, h, r float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Min(r, math.Min(w, h)/2)
	bounds := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h))).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	f := func(v, o float64) float32 { return float32(v - o) }
	z.MoveTo(f(x+r, ox), f(y, oy))
	z.LineTo(f(x+w-r, ox), f(y, oy))
	z.QuadTo(f(x+w, ox), f(y, oy), f(x+w, ox), f(y+r, oy))
	z.LineTo(f(x+w, ox), f(y+h-r, oy))
	z.QuadTo(f(x+w, ox), f(y+h, oy), f(x+w-r, ox), f(y+h, oy))
	z.LineTo(f(x+r, ox), f(y+h, oy))
	z.QuadTo(f(x, ox), f(y+h, oy), f(x, ox), f(y+h-r, oy))
	z.LineTo(f(x, ox), f(y+r, oy))
	z.QuadTo(f(x, ox), f(y, oy), f(x+r, ox), f(y, oy))
	z.ClosePath()
	z.Draw(dst, bounds, image.NewUniform(c), image.Point{})
}

func drawCenteredText(dst *image.RGBA, face font.Face, s string, cx, cy float64, c color.RGBA) {
	if s == "" {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	adv := d.MeasureString(s)
	m := face.Metrics()
	x := fixed.Int26_6(cx*64) - adv/2
	y := fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(s)
}
