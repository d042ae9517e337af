package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// draw text at specified position
func (r *Renderer) DrawText(x, y int, text string, style tcell.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return
	}

	i := 0
	for _, ch := range text {
		if x+i >= 0 && x+i < w {
			r.screen.SetContent(x+i, y, ch, nil, style)
		}
		i++
	}
}

// Fills a horizontal line with a style
func (r *Renderer) FillLine(y int, style tcell.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return
	}

	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// Displays a centered message
func (r *Renderer) RenderMessage(msg string, bgColor tcell.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	style := tcell.StyleDefault.Background(bgColor).Foreground(tcell.ColorWhite)

	y := h / 2
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	runes := []rune(msg)
	x := max((w-len(runes))/2, 0)
	for i, ch := range runes {
		if x+i < w {
			r.screen.SetContent(x+i, y, ch, nil, style)
		}
	}
}

// Draws the progress bar row. While tracking the marker is highlighted.
func (r *Renderer) ProgressBar(progress float64, tracking bool, filledColor, emptyColor tcell.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	l := LayoutFor(w, h)
	if l.BarY < 0 || w < 4 {
		return
	}

	first, last := l.barSpan()
	mx := l.MarkerAt(progress)

	filledStyle := tcell.StyleDefault.Foreground(filledColor)
	emptyStyle := tcell.StyleDefault.Foreground(emptyColor)

	for x := first; x <= last; x++ {
		if x < mx {
			r.screen.SetContent(x, l.BarY, '━', nil, filledStyle)
		} else {
			r.screen.SetContent(x, l.BarY, '─', nil, emptyStyle)
		}
	}

	marker := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	if tracking {
		marker = marker.Foreground(tcell.ColorYellow).Bold(true)
	}
	r.screen.SetContent(mx, l.BarY, '●', nil, marker)
}

// DrawRing draws a ripple ring centred on a cell. radius is in rows; cells
// are about twice as tall as they are wide.
func (r *Renderer) DrawRing(cx, cy int, radius, opacity float64, color tcell.Color) {
	if opacity <= 0 || radius <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	stage := LayoutFor(w, h).Stage
	glyph := ringGlyph(opacity)
	style := tcell.StyleDefault.Foreground(color)

	steps := max(int(radius*16), 12)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(2*radius*math.Cos(a)))
		y := cy + int(math.Round(radius*math.Sin(a)))
		if stage.Contains(x, y) {
			r.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

func ringGlyph(opacity float64) rune {
	switch {
	case opacity > 0.66:
		return '●'
	case opacity > 0.33:
		return '•'
	default:
		return '·'
	}
}
