package dashboard

import (
	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Reducer holds the immutable inputs every transition needs. Reduce never mutates
// its input state.
type Reducer struct {
	Index  *aggregate.Index
	Policy *colors.Policy
	Layout scene.Layout
	events []string
}

func NewReducer(ds *votes.Dataset, policy *colors.Policy, layout scene.Layout) *Reducer {
	if policy == nil {
		policy = colors.NewPolicy(nil, nil)
	}
	return &Reducer{
		Index:  aggregate.NewIndex(ds),
		Policy: policy,
		Layout: layout,
		events: ds.Events(),
	}
}

// Events lists the selectable vote events in data-source order.
func (r *Reducer) Events() []string { return r.events }

// Init selects the most recent event (the first one in source order) with no option.
func (r *Reducer) Init(mode aggregate.Mode) State {
	s := State{
		Mode:     mode,
		Strategy: r.Policy.Strategy,
		Scene:    scene.NewController(),
	}
	if len(r.events) > 0 {
		s.Filter.Event = r.events[0]
	}
	return r.recompute(s)
}

func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectEvent:
		if a.Title == s.Filter.Event {
			return s
		}
		s.Filter.Event = a.Title
		return r.recompute(s)
	case SelectOption:
		opt := a.Option
		if !opt.Valid() {
			opt = votes.OptionUnknown
		}
		if opt == s.Filter.Option {
			return s
		}
		s.Filter.Option = opt
		return r.recompute(s)
	case CycleEvent:
		if len(r.events) == 0 {
			return s
		}
		s.Filter.Event = r.events[cycle(indexOf(r.events, s.Filter.Event), a.Delta, len(r.events))]
		return r.recompute(s)
	case CycleOption:
		i := 0
		for j, o := range OptionCycle {
			if o == s.Filter.Option {
				i = j
			}
		}
		s.Filter.Option = OptionCycle[cycle(i, a.Delta, len(OptionCycle))]
		return r.recompute(s)
	case SetMode:
		if a.Mode == s.Mode {
			return s
		}
		s.Mode = a.Mode
		return r.recompute(s)
	case SetStrategy:
		if a.Strategy == nil {
			return s
		}
		s.Strategy = a.Strategy
		s.Tiles = r.tiles(s)
		return s
	case ClickProvince:
		return r.click(s, a.Province)
	case ClickAt:
		t, ok := scene.HitTest(s.Tiles, s.Scene.Camera, a.Point.X, a.Point.Y)
		if !ok {
			return s
		}
		return r.click(s, t.Province)
	case PointerMove:
		s.Scene.PointerAt(s.Tiles, a.Point, r.roster(s.Result))
		return s
	case PointerLeave:
		s.Scene.PointerLeave()
		return s
	case ZoomAt:
		s.Scene.Camera.Zoom(a.Factor, a.Point.X, a.Point.Y)
		return s
	case PanBy:
		s.Scene.Camera.Pan(a.DX, a.DY)
		return s
	case ResetCamera:
		s.Scene.Camera.Reset()
		return s
	}
	return s
}

// recompute rebuilds every derived field for the current filter. Selection and
// camera are carried over untouched.
func (r *Reducer) recompute(s State) State {
	s.Result = r.Index.Aggregate(s.Filter, s.Mode)
	s.Roster = nil
	if s.HasSelection() {
		s.Roster = r.Index.Roster(s.Result, s.Scene.Selected)
	}
	s.Tiles = r.tiles(s)
	if s.Scene.Tooltip.Visible {
		id := s.Scene.Tooltip.Province
		s.Scene.Tooltip.Stat = s.Result.Stat(id)
		s.Scene.Tooltip.MPs = r.Index.Roster(s.Result, id)
	}
	s.Revision++
	return s
}

func (r *Reducer) click(s State, id provinces.ID) State {
	sel := s.Scene.Click(id, r.roster(s.Result))
	s.Roster = sel.MPs
	s.Tiles = r.tiles(s)
	return s
}

func (r *Reducer) tiles(s State) []scene.Tile {
	return scene.Build(r.Layout, s.Result, s.Filter.Option, r.Policy.WithStrategy(s.Strategy), s.Scene.Selected)
}

func (r *Reducer) roster(res *aggregate.Result) scene.RosterFunc {
	return func(id provinces.ID) []aggregate.Member {
		return r.Index.Roster(res, id)
	}
}

// Selection reports the current selection the way a click does.
func (s State) Selection() scene.Selection {
	return scene.Selection{Province: s.Scene.Selected, MPs: s.Roster}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func cycle(i, delta, n int) int {
	if i < 0 {
		if delta < 0 {
			return n - 1
		}
		return 0
	}
	return ((i+delta)%n + n) % n
}
