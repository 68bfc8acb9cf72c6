// Package aggregate turns raw vote records into per-province and per-person statistics.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Mode selects how ProvinceStat buckets are filled.
type Mode int

const (
	// ModeDetailed tallies individual ballots. Buckets are integer counts summing to Total.
	ModeDetailed Mode = iota
	// ModeFact copies precomputed shares. Buckets are portions in [0,1].
	ModeFact
)

func (m Mode) String() string {
	if m == ModeFact {
		return "fact"
	}
	return "detailed"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "detailed", "detail":
		return ModeDetailed, nil
	case "fact", "facts":
		return ModeFact, nil
	}
	return ModeDetailed, fmt.Errorf("unknown aggregation mode %q", s)
}

// Filter narrows the records being aggregated. An empty Event means every event;
// OptionUnknown means every option.
type Filter struct {
	Event  string
	Option votes.Option
}

func (f Filter) HasOption() bool { return f.Option.Valid() }

type ProvinceStat struct {
	Province provinces.ID
	Mode     Mode

	Agree    float64
	Disagree float64
	Abstain  float64
	NoVote   float64
	Absent   float64
	Total    float64

	// Portion and WinningOption summarize the province as a whole. In fact mode they
	// come from the "All" row; in detailed mode they are derived from the counts.
	Portion       float64
	WinningOption votes.Option
}

// Value returns the bucket for o, or 0 for anything that is not a ballot option.
func (s *ProvinceStat) Value(o votes.Option) float64 {
	if s == nil {
		return 0
	}
	switch o {
	case votes.Agree:
		return s.Agree
	case votes.Disagree:
		return s.Disagree
	case votes.Abstain:
		return s.Abstain
	case votes.NoVote:
		return s.NoVote
	case votes.Absent:
		return s.Absent
	}
	return 0
}

func (s *ProvinceStat) set(o votes.Option, v float64) {
	switch o {
	case votes.Agree:
		s.Agree = v
	case votes.Disagree:
		s.Disagree = v
	case votes.Abstain:
		s.Abstain = v
	case votes.NoVote:
		s.NoVote = v
	case votes.Absent:
		s.Absent = v
	}
}

// Share returns the fraction of the province held by o. Detailed counts are divided
// by Total; fact portions are returned as is.
func (s *ProvinceStat) Share(o votes.Option) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v := s.Value(o)
	if s.Mode == ModeFact {
		return clamp01(v), true
	}
	if s.Total <= 0 {
		return 0, false
	}
	return v / s.Total, true
}

// Majority returns the largest bucket, ties going to the earliest declared option.
func (s *ProvinceStat) Majority() votes.Option {
	if s == nil {
		return votes.OptionUnknown
	}
	return majority(s.Value)
}

// Sum adds the five buckets.
func (s *ProvinceStat) Sum() float64 {
	return s.Agree + s.Disagree + s.Abstain + s.NoVote + s.Absent
}

// PersonStat tallies one person's ballots within the current filter.
type PersonStat struct {
	Name     string
	Province provinces.ID

	Agree    int
	Disagree int
	Abstain  int
	NoVote   int
	Absent   int
	Total    int
}

func (p *PersonStat) Count(o votes.Option) int {
	if p == nil {
		return 0
	}
	switch o {
	case votes.Agree:
		return p.Agree
	case votes.Disagree:
		return p.Disagree
	case votes.Abstain:
		return p.Abstain
	case votes.NoVote:
		return p.NoVote
	case votes.Absent:
		return p.Absent
	}
	return 0
}

func (p *PersonStat) add(o votes.Option, n int) {
	switch o {
	case votes.Agree:
		p.Agree += n
	case votes.Disagree:
		p.Disagree += n
	case votes.Abstain:
		p.Abstain += n
	case votes.NoVote:
		p.NoVote += n
	case votes.Absent:
		p.Absent += n
	default:
		return
	}
	p.Total += n
}

// MajorityAction is the category this person voted most, or OptionUnknown with no votes.
func (p *PersonStat) MajorityAction() votes.Option {
	if p == nil {
		return votes.OptionUnknown
	}
	return majority(func(o votes.Option) float64 { return float64(p.Count(o)) })
}

func majority(value func(votes.Option) float64) votes.Option {
	best, bestV := votes.OptionUnknown, 0.0
	for _, o := range votes.Options {
		if v := value(o); v > bestV {
			best, bestV = o, v
		}
	}
	return best
}

// winner picks the winning result of a province from its counts. An agree/disagree
// tie is a Tie. Otherwise absent, then abstain, then no-vote drop out of a shared top
// until one result remains.
func winner(value func(votes.Option) float64) votes.Option {
	top := 0.0
	for _, o := range votes.Options {
		if v := value(o); v > top {
			top = v
		}
	}
	if top <= 0 {
		return votes.OptionUnknown
	}
	var tied []votes.Option
	for _, o := range votes.Options {
		if value(o) == top {
			tied = append(tied, o)
		}
	}
	if len(tied) > 1 && tied[0] == votes.Agree && tied[1] == votes.Disagree {
		return votes.Tie
	}
	for _, drop := range tieDropOrder {
		if len(tied) == 1 {
			break
		}
		tied = slices.DeleteFunc(tied, func(o votes.Option) bool { return o == drop })
	}
	return tied[0]
}

var tieDropOrder = []votes.Option{votes.Absent, votes.Abstain, votes.NoVote}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
