package colors

import (
	"fmt"
	"math"
	"strings"

	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Strategy turns a portion for an option into a fill. ok is false when the value
// should be drawn as "no data".
type Strategy interface {
	Name() string
	Fill(r *Registry, o votes.Option, portion float64) (fill Color, ok bool)
}

// Gradient interpolates from the registry base color to the option's signature.
type Gradient struct{}

func (Gradient) Name() string { return "gradient" }

func (Gradient) Fill(r *Registry, o votes.Option, portion float64) (Color, bool) {
	target, ok := r.Signature(o)
	if !ok {
		target = r.Neutral
	}
	return Lerp(r.Base, target, portion), true
}

// ThreeBin buckets the portion into three pre-registered shades.
type ThreeBin struct{}

func (ThreeBin) Name() string { return "3bin" }

func (ThreeBin) Fill(r *Registry, o votes.Option, portion float64) (Color, bool) {
	bin, ok := BinFor(portion)
	if !ok {
		return r.NoData, false
	}
	return r.Bins(o)[bin], true
}

// BinFor buckets a portion. Anything at or below zero has no bin.
func BinFor(portion float64) (Bin, bool) {
	switch {
	case portion <= 0 || math.IsNaN(portion):
		return 0, false
	case portion <= 0.33:
		return BinLight, true
	case portion <= 0.67:
		return BinMedium, true
	}
	return BinDark, true
}

// MinGradientTile is the smallest tile edge on which gradient steps stay distinguishable.
const MinGradientTile = 24.0

// AutoStrategy picks ThreeBin for tiles too small to show a gradient.
func AutoStrategy(tileSize float64) Strategy {
	if tileSize < MinGradientTile {
		return ThreeBin{}
	}
	return Gradient{}
}

func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gradient":
		return Gradient{}, nil
	case "3bin", "threebin", "bins":
		return ThreeBin{}, nil
	}
	return nil, fmt.Errorf("unknown color strategy %q", name)
}
