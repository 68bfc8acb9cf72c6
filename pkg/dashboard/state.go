// Package dashboard holds the filter and selection state of one viewing session and
// the reducer that moves it between states.
package dashboard

import (
	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// State is everything one session shows. Derived fields (Result, Tiles, Roster)
// are rebuilt wholesale by the reducer and never patched in place.
type State struct {
	Filter   aggregate.Filter
	Mode     aggregate.Mode
	Strategy colors.Strategy

	Result *aggregate.Result
	Tiles  []scene.Tile
	// Roster is the MP list of the selected province under the current filter.
	Roster []aggregate.Member

	Scene scene.Controller

	// Revision increments on every recompute.
	Revision int
}

func (s State) Selected() provinces.ID { return s.Scene.Selected }

func (s State) HasSelection() bool { return s.Scene.Selected != provinces.None }

// Action is a state transition request.
type Action interface {
	action()
}

type SelectEvent struct{ Title string }

// SelectOption with votes.OptionUnknown clears the option axis.
type SelectOption struct{ Option votes.Option }

type CycleEvent struct{ Delta int }

type CycleOption struct{ Delta int }

type SetMode struct{ Mode aggregate.Mode }

type SetStrategy struct{ Strategy colors.Strategy }

type ClickProvince struct{ Province provinces.ID }

// ClickAt hit-tests a screen point and clicks whatever is under it.
type ClickAt struct{ Point scene.Point }

type PointerMove struct{ Point scene.Point }

type PointerLeave struct{}

type ZoomAt struct {
	Factor float64
	Point  scene.Point
}

type PanBy struct{ DX, DY float64 }

type ResetCamera struct{}

func (SelectEvent) action() {}
func (SelectOption) action() {}
func (CycleEvent) action() {}
func (CycleOption) action() {}
func (SetMode) action() {}
func (SetStrategy) action() {}
func (ClickProvince) action() {}
func (ClickAt) action() {}
func (PointerMove) action() {}
func (PointerLeave) action() {}
func (ZoomAt) action() {}
func (PanBy) action() {}
func (ResetCamera) action() {}

// OptionCycle is the order CycleOption walks; OptionUnknown is "all".
var OptionCycle = []votes.Option{votes.OptionUnknown, votes.Agree, votes.Disagree, votes.Abstain, votes.NoVote, votes.Absent}
