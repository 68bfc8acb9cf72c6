package viewer

import (
	"math"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// slice is one donut segment, in radians measured clockwise from 12 o'clock.
type slice struct {
	Used       bool
	Start, End float64
}

// donutSlices splits a full turn between used and other. Empty slices are dropped.
func donutSlices(used, other float64) []slice {
	total := used + other
	if total <= 0 {
		return nil
	}
	split := 2 * math.Pi * used / total
	var out []slice
	if used > 0 {
		out = append(out, slice{Used: true, Start: 0, End: split})
	}
	if other > 0 {
		out = append(out, slice{Start: split, End: 2 * math.Pi})
	}
	return out
}

// arcPoints samples an arc. Angle 0 points straight up.
func arcPoints(cx, cy, r, from, to float64) []scene.Point {
	steps := int(math.Ceil((to-from)/(math.Pi/48))) + 1
	if steps < 2 {
		steps = 2
	}
	pts := make([]scene.Point, steps)
	for i := range pts {
		a := from + (to-from)*float64(i)/float64(steps-1)
		pts[i] = scene.Point{X: cx + r*math.Sin(a), Y: cy - r*math.Cos(a)}
	}
	return pts
}

type bar struct {
	Option votes.Option
	Value  float64
	Width  float64
}

// barWidths scales buckets so the largest fills maxWidth.
func barWidths(buckets []aggregate.Bucket, maxWidth float64) []bar {
	var top float64
	for _, b := range buckets {
		top = math.Max(top, b.Value)
	}
	out := make([]bar, len(buckets))
	for i, b := range buckets {
		out[i] = bar{Option: b.Option, Value: b.Value}
		if top > 0 {
			out[i].Width = maxWidth * b.Value / top
		}
	}
	return out
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * part / total
}
