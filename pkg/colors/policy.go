package colors

import (
	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

type Pair struct {
	Fill Color
	Text Color
}

// Policy combines the shared registry with a fill strategy. A Policy is immutable
// once built and can be shared between renderers.
type Policy struct {
	Registry *Registry
	Strategy Strategy
}

func NewPolicy(r *Registry, s Strategy) *Policy {
	if r == nil {
		r = DefaultRegistry()
	}
	if s == nil {
		s = Gradient{}
	}
	return &Policy{Registry: r, Strategy: s}
}

// WithStrategy returns a copy of p using s.
func (p *Policy) WithStrategy(s Strategy) *Policy {
	return &Policy{Registry: p.Registry, Strategy: s}
}

func (p *Policy) NoData() Pair {
	return Pair{Fill: p.Registry.NoData, Text: p.Registry.DarkText}
}

// ColorFor colors one province. opt is the selected option; anything that is not a
// ballot option selects the winning-option view.
func (p *Policy) ColorFor(stat *aggregate.ProvinceStat, opt votes.Option) Pair {
	if stat == nil || (stat.Mode == aggregate.ModeDetailed && stat.Total <= 0) {
		return p.NoData()
	}

	var (
		fill Color
		ok   bool
	)
	if opt.Valid() {
		share, has := stat.Share(opt)
		if !has {
			return p.NoData()
		}
		fill, ok = p.Strategy.Fill(p.Registry, opt, share)
	} else {
		fill, ok = p.Strategy.Fill(p.Registry, stat.WinningOption, clamp01(stat.Portion))
	}
	if !ok {
		return p.NoData()
	}
	return Pair{Fill: fill, Text: p.Registry.Text(fill)}
}
