package player

import "github.com/samber/lo"

type zoomState struct {
	scale float64
	base  float64
	min   float64
	max   float64
}

// HandlePinch follows a pinch, where scale is relative to the scale at
// PhaseBegan.
func (c *Coordinator) HandlePinch(phase Phase, scale float64) {
	switch phase {
	case PhaseBegan:
		c.zoom.base = c.zoom.scale
	case PhaseChanged, PhaseEnded:
		if !finite(scale) || scale <= 0 {
			return
		}
		c.SetZoomScale(c.zoom.base * scale)
		return
	case PhaseCancelled:
		c.SetZoomScale(c.zoom.base)
		return
	}
	c.notify()
}

// SetZoomScale clamps scale into the configured range.
func (c *Coordinator) SetZoomScale(scale float64) {
	if !finite(scale) {
		return
	}
	c.zoom.scale = lo.Clamp(scale, c.zoom.min, c.zoom.max)
	c.notify()
}

// IsZoomed reports whether the view is zoomed beyond its minimum scale.
func (c *Coordinator) IsZoomed() bool {
	return c.zoom.scale > c.zoom.min
}
