package scene

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type SVGOptions struct {
	Layout Layout
	Camera Camera
	// Width and Height of the viewport. Zero uses the unscaled grid size.
	Width, Height float64
	Title         string
	FontFamily    string
}

// EncodeSVG writes tiles as a standalone SVG document.
func EncodeSVG(w io.Writer, tiles []Tile, opts SVGOptions) error {
	gw, gh := opts.Layout.Size()
	if opts.Width <= 0 {
		opts.Width = gw
	}
	if opts.Height <= 0 {
		opts.Height = gh
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "Noto Sans Thai, sans-serif"
	}
	cam := opts.Camera
	cam.normalize()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(opts.Width), num(opts.Height), num(opts.Width), num(opts.Height))
	if opts.Title != "" {
		fmt.Fprintf(bw, "<title>%s</title>\n", escape(opts.Title))
	}
	fmt.Fprintf(bw, `<g transform="translate(%s,%s) scale(%s)" font-family="%s" font-size="%s" text-anchor="middle" dominant-baseline="central">`+"\n",
		num(cam.X), num(cam.Y), num(cam.Scale), escape(opts.FontFamily), num(opts.Layout.FontSize))
	for _, t := range tiles {
		stroke, width := "transparent", t.Stroke.Width
		if t.Stroke.Visible {
			stroke = t.Stroke.Color.Hex()
		}
		fmt.Fprintf(bw, `<g data-province="%s"><rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			escape(t.Name), num(t.Rect.X), num(t.Rect.Y), num(t.Rect.W), num(t.Rect.H), num(opts.Layout.Radius),
			t.Fill.Hex(), stroke, num(width))
		fmt.Fprintf(bw, `<text x="%s" y="%s" fill="%s">%s</text></g>`+"\n",
			num(t.Rect.X+t.Rect.W/2), num(t.Rect.Y+t.Rect.H/2), t.Text.Hex(), escape(t.Label))
	}
	fmt.Fprint(bw, "</g>\n</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func escape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return ""
	}
	return sb.String()
}
