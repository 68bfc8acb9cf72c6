package viewer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// DragThreshold is how far the pointer must travel with the button held before a
// press becomes a pan instead of a click.
const DragThreshold = 4.0

// WheelStep is the zoom factor of one wheel notch.
const WheelStep = 1.1

// gesture turns raw pointer samples into dashboard actions. It is fed once per tick.
type gesture struct {
	down     bool
	dragging bool
	start    scene.Point
	last     scene.Point

	hovering bool
	hover    scene.Point
}

func (g *gesture) update(p scene.Point, pressed, inMap bool) []dashboard.Action {
	switch {
	case pressed && !g.down:
		if !inMap {
			return nil
		}
		g.down, g.dragging = true, false
		g.start, g.last = p, p
		return nil

	case pressed && g.down:
		if !g.dragging && math.Hypot(p.X-g.start.X, p.Y-g.start.Y) > DragThreshold {
			g.dragging = true
		}
		if !g.dragging {
			return nil
		}
		dx, dy := p.X-g.last.X, p.Y-g.last.Y
		g.last = p
		if dx == 0 && dy == 0 {
			return nil
		}
		return []dashboard.Action{dashboard.PanBy{DX: dx, DY: dy}}

	case !pressed && g.down:
		g.down = false
		if g.dragging {
			g.dragging = false
			return nil
		}
		return []dashboard.Action{dashboard.ClickAt{Point: p}}
	}

	if !inMap {
		if g.hovering {
			g.hovering = false
			return []dashboard.Action{dashboard.PointerLeave{}}
		}
		return nil
	}
	if g.hovering && p == g.hover {
		return nil
	}
	g.hovering, g.hover = true, p
	return []dashboard.Action{dashboard.PointerMove{Point: p}}
}

// wheelAction zooms around the cursor.
func wheelAction(dy float64, at scene.Point) (dashboard.Action, bool) {
	if dy == 0 {
		return nil, false
	}
	return dashboard.ZoomAt{Factor: math.Pow(WheelStep, dy), Point: at}, true
}

func toggleStrategy(s colors.Strategy) colors.Strategy {
	if _, ok := s.(colors.ThreeBin); ok {
		return colors.Gradient{}
	}
	return colors.ThreeBin{}
}

func toggleMode(m aggregate.Mode) aggregate.Mode {
	if m == aggregate.ModeFact {
		return aggregate.ModeDetailed
	}
	return aggregate.ModeFact
}

var digitOptions = map[ebiten.Key]votes.Option{
	ebiten.KeyDigit0: votes.OptionUnknown,
	ebiten.KeyDigit1: votes.Agree,
	ebiten.KeyDigit2: votes.Disagree,
	ebiten.KeyDigit3: votes.Abstain,
	ebiten.KeyDigit4: votes.NoVote,
	ebiten.KeyDigit5: votes.Absent,
}

// keyAction maps a just-pressed key to an action. center is the middle of the map
// area, used by keyboard zoom.
func keyAction(k ebiten.Key, st dashboard.State, center scene.Point) (dashboard.Action, bool) {
	if o, ok := digitOptions[k]; ok {
		return dashboard.SelectOption{Option: o}, true
	}
	switch k {
	case ebiten.KeyBracketLeft:
		return dashboard.CycleEvent{Delta: -1}, true
	case ebiten.KeyBracketRight:
		return dashboard.CycleEvent{Delta: 1}, true
	case ebiten.KeyTab:
		return dashboard.CycleOption{Delta: 1}, true
	case ebiten.KeyM:
		return dashboard.SetStrategy{Strategy: toggleStrategy(st.Strategy)}, true
	case ebiten.KeyF:
		return dashboard.SetMode{Mode: toggleMode(st.Mode)}, true
	case ebiten.KeyR:
		return dashboard.ResetCamera{}, true
	case ebiten.KeyEscape:
		if st.HasSelection() {
			return dashboard.ClickProvince{Province: st.Selected()}, true
		}
		return nil, false
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		return dashboard.ZoomAt{Factor: 1.25, Point: center}, true
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		return dashboard.ZoomAt{Factor: 0.8, Point: center}, true
	}
	return nil, false
}

// windowTitle names the current event and selection.
func windowTitle(base string, st dashboard.State) string {
	t := base
	if st.Filter.Event != "" {
		t += " - " + truncate(st.Filter.Event, 60)
	}
	if id := st.Selected(); id != provinces.None {
		p, _ := provinces.ByID(id)
		t += " (" + p.English + ")"
	}
	return t
}
