package scene

import (
	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/provinces"
)

// TooltipOffset is the distance between the pointer and the tooltip's near edge.
const TooltipOffset = 15.0

type Point struct {
	X, Y float64
}

type Tooltip struct {
	Visible  bool
	Position Point
	Province provinces.ID
	MPs      []aggregate.Member
	Stat     *aggregate.ProvinceStat
}

// Selection is emitted on click. A cleared selection has Province == provinces.None and no MPs.
type Selection struct {
	Province provinces.ID
	MPs      []aggregate.Member
}

func (s Selection) Empty() bool { return s.Province == provinces.None }

// RosterFunc supplies the current MP roster of a province.
type RosterFunc func(provinces.ID) []aggregate.Member

// Controller is the pointer state of one viewing session. It is a plain value so a
// reducer can copy it; nothing in it is shared between sessions.
type Controller struct {
	Camera   Camera
	Tooltip  Tooltip
	Selected provinces.ID
}

func NewController() Controller {
	return Controller{Camera: NewCamera()}
}

// PointerEnter starts hovering a tile. Hover never changes the selection.
func (c *Controller) PointerEnter(t Tile, mps []aggregate.Member, at Point) {
	c.Tooltip = Tooltip{
		Visible:  true,
		Position: at,
		Province: t.Province,
		MPs:      mps,
		Stat:     t.Stat,
	}
}

// PointerMove only moves a visible tooltip.
func (c *Controller) PointerMove(at Point) {
	if c.Tooltip.Visible {
		c.Tooltip.Position = at
	}
}

func (c *Controller) PointerLeave() {
	c.Tooltip.Visible = false
}

// Click toggles the selection of id and reports the new selection.
func (c *Controller) Click(id provinces.ID, roster RosterFunc) Selection {
	if id == provinces.None || id == c.Selected {
		c.Selected = provinces.None
		return Selection{}
	}
	c.Selected = id
	sel := Selection{Province: id}
	if roster != nil {
		sel.MPs = roster(id)
	}
	return sel
}

// PointerAt drives enter/move/leave from a raw pointer position, using hit testing.
// It reports whether the hovered province changed.
func (c *Controller) PointerAt(tiles []Tile, at Point, roster RosterFunc) bool {
	t, hit := HitTest(tiles, c.Camera, at.X, at.Y)
	switch {
	case !hit:
		if c.Tooltip.Visible {
			c.PointerLeave()
			return true
		}
		return false
	case c.Tooltip.Visible && c.Tooltip.Province == t.Province:
		c.PointerMove(at)
		return false
	}
	var mps []aggregate.Member
	if roster != nil {
		mps = roster(t.Province)
	}
	c.PointerEnter(t, mps, at)
	return true
}

// PlaceTooltip positions a tooltip of the given width right of and below the pointer,
// flipping to the left when it would overflow the container. There is no vertical guard.
func PlaceTooltip(pointer Point, width, containerWidth float64) Point {
	x := pointer.X + TooltipOffset
	if pointer.X+TooltipOffset+width > containerWidth {
		x = pointer.X - width - TooltipOffset
	}
	// TODO: clamp y against the container height once the info panel layout settles.
	return Point{X: x, Y: pointer.Y + TooltipOffset}
}
