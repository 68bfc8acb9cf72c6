// Package scene lays province tiles onto the grid and handles pointer interaction over them.
package scene

import "math"

const (
	MinScale = 1.0
	MaxScale = 8.0
)

// Camera is the zoom/pan transform applied to the whole grid: screen = world*Scale + (X, Y).
// Whenever Scale is exactly MinScale the translation is pinned to the origin.
type Camera struct {
	Scale float64
	X, Y  float64
}

func NewCamera() Camera {
	return Camera{Scale: MinScale}
}

func (c *Camera) normalize() {
	if math.IsNaN(c.Scale) || c.Scale < MinScale {
		c.Scale = MinScale
	}
	if c.Scale > MaxScale {
		c.Scale = MaxScale
	}
	if c.Scale == MinScale {
		c.X, c.Y = 0, 0
	}
}

func (c *Camera) SetScale(s float64) {
	c.Scale = s
	c.normalize()
}

// Zoom multiplies the scale by factor while keeping the world point under (cx, cy) fixed.
func (c *Camera) Zoom(factor, cx, cy float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	c.normalize()
	wx, wy := c.ToWorld(cx, cy)
	c.Scale *= factor
	c.normalize()
	if c.Scale == MinScale {
		return
	}
	c.X = cx - wx*c.Scale
	c.Y = cy - wy*c.Scale
}

// Pan moves the grid by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.normalize()
}

func (c *Camera) Reset() {
	*c = NewCamera()
}

func (c Camera) ToWorld(sx, sy float64) (float64, float64) {
	s := c.Scale
	if s <= 0 {
		s = MinScale
	}
	return (sx - c.X) / s, (sy - c.Y) / s
}

func (c Camera) ToScreen(wx, wy float64) (float64, float64) {
	s := c.Scale
	if s <= 0 {
		s = MinScale
	}
	return wx*s + c.X, wy*s + c.Y
}
