package colors

import "github.com/sudorandom/vote-grid/pkg/votes"

// Bin indexes the three shades of a ThreeBin palette.
type Bin int

const (
	BinDark Bin = iota
	BinMedium
	BinLight
)

// Registry is the single color table shared by tiles, legend, charts and tooltip.
// Palettes keyed by votes.OptionUnknown are the "all options" palettes.
type Registry struct {
	Base      Color // light end of every gradient
	NoData    Color
	Neutral   Color // gradient target for an unknown winning option
	DarkText  Color
	LightText Color
	Accent    Color // selected tile stroke
	Panel     Color

	Used    Color
	NotUsed Color

	signature  map[votes.Option]Color
	bins       map[votes.Option][3]Color
	background map[votes.Option]Color
	action     map[votes.Option]Color

	DefaultBackground Color
	DefaultAction     Color
}

// DefaultRegistry returns the stock palette.
func DefaultRegistry() *Registry {
	gray := [3]Color{MustHex("#4b5563"), MustHex("#6b7280"), MustHex("#9ca3af")}
	return &Registry{
		Base:      MustHex("#f5f5f5"),
		NoData:    MustHex("#d4d4d4"),
		Neutral:   MustHex("#9ca3af"),
		DarkText:  MustHex("#1f2937"),
		LightText: MustHex("#ffffff"),
		Accent:    MustHex("#ff6b00"),
		Panel:     MustHex("#1976d2"),
		Used:      MustHex("#065f46"),
		NotUsed:   MustHex("#fffdfd"),
		signature: map[votes.Option]Color{
			votes.Agree:    MustHex("#5b83c2"),
			votes.Disagree: MustHex("#bb000b"),
			votes.Abstain:  MustHex("#d9d9d9"),
			votes.NoVote:   MustHex("#b4b4b4"),
			votes.Absent:   MustHex("#545454"),
			votes.Tie:      MustHex("#7c3aed"),
		},
		bins: map[votes.Option][3]Color{
			votes.OptionUnknown: {MustHex("#678967"), MustHex("#9db49d"), MustHex("#bae4c1")},
			votes.Agree:         {MustHex("#2d3470"), MustHex("#677590"), MustHex("#9ca3af")},
			votes.Disagree:      {MustHex("#9d0606"), MustHex("#ef5958"), MustHex("#fdacaf")},
			votes.Abstain:       gray,
			votes.NoVote:        gray,
			votes.Absent:        gray,
			votes.Tie:           {MustHex("#7c3aed"), MustHex("#a78bfa"), MustHex("#c4b5fd")},
		},
		background: map[votes.Option]Color{
			votes.OptionUnknown: MustHex("#e8dbcf"),
			votes.Agree:         MustHex("#9bb4c6"),
			votes.Disagree:      MustHex("#ffd7ce"),
			votes.Abstain:       MustHex("#e1e1e1"),
			votes.NoVote:        MustHex("#e1e1e1"),
			votes.Absent:        MustHex("#e1e1e1"),
		},
		action: map[votes.Option]Color{
			votes.Agree:    MustHex("#060b7d"),
			votes.Disagree: MustHex("#9d0606"),
			votes.Abstain:  MustHex("#d9d9d9"),
			votes.NoVote:   MustHex("#b4b4b4"),
			votes.Absent:   MustHex("#545454"),
		},
		DefaultBackground: MustHex("#f4eeeb"),
		DefaultAction:     MustHex("#d1d5db"),
	}
}

// Signature is the color an option's gradient runs toward.
func (r *Registry) Signature(o votes.Option) (Color, bool) {
	c, ok := r.signature[o]
	return c, ok
}

// Bins returns the dark, medium and light shades for o. Unknown options get the
// "all options" palette.
func (r *Registry) Bins(o votes.Option) [3]Color {
	if b, ok := r.bins[o]; ok {
		return b
	}
	return r.bins[votes.OptionUnknown]
}

// Background is the filter panel tint for o. OptionUnknown is the "all options" tint.
func (r *Registry) Background(o votes.Option) Color {
	if c, ok := r.background[o]; ok {
		return c
	}
	return r.DefaultBackground
}

// Action is the chart color of a person's majority action.
func (r *Registry) Action(o votes.Option) Color {
	if c, ok := r.action[o]; ok {
		return c
	}
	return r.DefaultAction
}

// Text picks a legible label color for fill.
func (r *Registry) Text(fill Color) Color {
	if IsDark(fill) {
		return r.LightText
	}
	return r.DarkText
}

// SetSignature overrides the signature of one option.
func (r *Registry) SetSignature(o votes.Option, c Color) {
	r.signature[o] = c
}
