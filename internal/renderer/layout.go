package renderer

import "github.com/samber/lo"

// Rect is a cell rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Layout splits the screen into the stage, the progress row and the
// status row, from top to bottom.
type Layout struct {
	Width, Height int

	Stage   Rect
	BarY    int
	StatusY int
}

func LayoutFor(w, h int) Layout {
	stageH := max(h-2, 0)
	return Layout{
		Width:   w,
		Height:  h,
		Stage:   Rect{W: w, H: stageH},
		BarY:    h - 2,
		StatusY: h - 1,
	}
}

// barSpan returns the first and last cell of the progress bar.
func (l Layout) barSpan() (first, last int) {
	return 1, l.Width - 2
}

// OnBar reports whether the cell is on the progress bar.
func (l Layout) OnBar(x, y int) bool {
	first, last := l.barSpan()
	return y == l.BarY && x >= first && x <= last
}

// RatioAt maps a column onto the progress bar, clamped to [0, 1].
func (l Layout) RatioAt(x int) float64 {
	first, last := l.barSpan()
	if last <= first {
		return 0
	}
	return lo.Clamp(float64(x-first)/float64(last-first), 0, 1)
}

// MarkerAt is the column of the progress marker for ratio.
func (l Layout) MarkerAt(ratio float64) int {
	first, last := l.barSpan()
	if last <= first {
		return first
	}
	if ratio != ratio {
		ratio = 0
	}
	ratio = lo.Clamp(ratio, 0, 1)
	return first + int(ratio*float64(last-first)+0.5)
}
