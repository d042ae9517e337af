package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
)

var bars = []color.RGBA{
	{192, 192, 192, 255},
	{192, 192, 0, 255},
	{0, 192, 192, 255},
	{0, 192, 0, 255},
	{192, 0, 192, 255},
	{192, 0, 0, 255},
	{0, 0, 192, 255},
}

// Card is the stand-in picture drawn on the stage: colour bars with a sweep
// line tied to the media clock, transformed like the video view.
type Card struct {
	// Phase in [0, 1) positions the sweep line.
	Phase float64
	Zoom  float64
	// Angle tilts the card around its centre, in radians.
	Angle float64
	Alpha float64
}

// Shade returns the colour at normalised card coordinates. Points outside
// the card are black.
func (c Card) Shade(u, v float64) color.RGBA {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	// Undo the tilt and zoom around the centre.
	du, dv := u-0.5, v-0.5
	sin, cos := math.Sincos(-c.Angle)
	du, dv = du*cos-dv*sin, du*sin+dv*cos
	u, v = du/zoom+0.5, dv/zoom+0.5

	if u < 0 || u >= 1 || v < 0 || v >= 1 {
		return color.RGBA{A: 255}
	}

	base := bars[min(int(u*float64(len(bars))), len(bars)-1)]
	if v > 0.75 {
		g := uint8(u * 255)
		base = color.RGBA{g, g, g, 255}
	}
	if math.Abs(u-c.Phase) < 0.01 {
		base = color.RGBA{255, 255, 255, 255}
	}
	return fade(base, c.Alpha)
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	a := lo.Clamp(alpha, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: 255,
	}
}

// Draws card into rect using half-block characters, two pixels per cell
func (r *Renderer) RenderCard(rect Rect, card Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed || rect.W <= 0 || rect.H <= 0 {
		return
	}

	w, h := r.screen.Size()
	stage := LayoutFor(w, h).Stage
	pixH := float64(rect.H * 2)

	for cy := 0; cy < rect.H; cy++ {
		y := rect.Y + cy
		for cx := 0; cx < rect.W; cx++ {
			x := rect.X + cx
			if !stage.Contains(x, y) {
				continue
			}

			u := (float64(cx) + 0.5) / float64(rect.W)
			top := card.Shade(u, (float64(2*cy)+0.5)/pixH)
			bot := card.Shade(u, (float64(2*cy)+1.5)/pixH)

			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))

			r.screen.SetContent(x, y, '▀', nil, style)
		}
	}
}
