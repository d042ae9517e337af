package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/renderer"
	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
)

const helpText = "Q:quit SPC:play h/l:skip H/L:hold ,/.:step +/-:zoom"

// animation plays the exit or snap-back after a dismiss drag is released.
type animation struct {
	from      player.Vector
	fromAngle float64

	running bool
	start   time.Time
	out     player.DismissOutcome
}

// frame returns the view transform at now and whether it is still moving.
func (an *animation) frame(st player.DismissState, now time.Time) (offset player.Vector, angle, alpha float64, moving bool) {
	if st.Tracking {
		an.running = false
		an.from, an.fromAngle = st.Offset, st.Angle
		return st.Offset, st.Angle, 1 - st.Progress/2, false
	}

	out, ok := st.Outcome.Get()
	if !ok {
		an.running = false
		an.from, an.fromAngle = player.Vector{}, 0
		return player.Vector{}, 0, 1, false
	}
	if !an.running {
		an.running = true
		an.start = now
		an.out = out
	}

	t := 1.0
	if an.out.Duration > 0 {
		t = lo.Clamp(now.Sub(an.start).Seconds()/an.out.Duration, 0, 1)
	}
	e := 1 - math.Pow(1-t, 3)

	offset = an.from.Add(an.out.TargetOffset.Add(an.from.Scale(-1)).Scale(e))
	angle = an.fromAngle + (an.out.TargetAngle-an.fromAngle)*e
	alpha = 1 + (an.out.TargetAlpha-1)*e
	return offset, angle, alpha, t < 1
}

// Render draws one frame. It runs on the loop goroutine.
func (a *App) Render() {
	if a.render.IsClosed() {
		return
	}

	now := a.loop.Now()
	st := a.coord.State()
	offset, angle, alpha, moving := a.animation.frame(st.Dismiss, now)
	if !a.dirty && !moving && len(st.Ripples) == 0 && !a.render.NeedsClear() {
		return
	}
	a.dirty = false

	layout := a.render.Layout()
	a.render.ClearStage()

	stage := layout.Stage
	stage.X += int(math.Round(offset.X / CellW))
	stage.Y += int(math.Round(offset.Y / CellH))
	a.render.RenderCard(stage, renderer.Card{
		Phase: st.SliderRatio,
		Zoom:  st.ZoomScale,
		Angle: angle,
		Alpha: alpha,
	})

	a.renderRipples(layout, st, now)
	if st.IsBuffering {
		a.render.RenderMessage("Buffering...", tcell.ColorDarkBlue)
	}
	a.renderUI(layout, st)
	a.render.Show()
}

func (a *App) renderRipples(layout renderer.Layout, st player.State, now time.Time) {
	cfg := a.coord.Config()
	maxRadius := math.Max(float64(layout.Stage.H)/3, 1)

	for _, item := range st.Ripples {
		radius, opacity := item.Appearance(now, cfg.RippleAnimation, cfg.RippleFadeOut)
		cx, cy := toCell(item.Center)
		a.render.DrawRing(cx, cy, radius*maxRadius, opacity, tcell.ColorWhite)
	}

	item, ok := st.LatestRipple.Get()
	if !ok {
		return
	}
	label := fmt.Sprintf("%ds »", item.SkipLabel)
	if item.Region == player.RegionLeft {
		label = fmt.Sprintf("« %ds", item.SkipLabel)
	}
	cx, cy := toCell(item.Center)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	a.render.DrawText(cx-len([]rune(label))/2, cy, label, style)
}

func (a *App) renderUI(layout renderer.Layout, st player.State) {
	if layout.Width < 10 || layout.Height < 5 {
		return
	}

	bgStyle := tcell.StyleDefault.Background(tcell.ColorBlack)
	a.render.FillLine(layout.BarY, bgStyle)
	a.render.ProgressBar(st.SliderRatio, st.IsTracking, tcell.ColorGreen, tcell.ColorDarkGray)

	statusStyle := tcell.StyleDefault.
		Background(tcell.ColorDarkBlue).
		Foreground(tcell.ColorWhite)
	a.render.FillLine(layout.StatusY, statusStyle)

	status := statusLine(a.title, st)
	if n := len([]rune(status)); n > layout.Width {
		status = string([]rune(status)[:layout.Width])
	}
	a.render.DrawText(0, layout.StatusY, status, statusStyle)
}

func statusLine(title string, st player.State) string {
	duration := "--:--"
	if d, ok := st.Duration.Get(); ok {
		duration = formatDuration(d)
	}

	parts := []string{
		fmt.Sprintf(" %s %s/%s", icon(st), formatDuration(st.CurrentTime), duration),
		fmt.Sprintf("%gx", st.Rate),
	}
	if st.ZoomScale > 1 {
		parts = append(parts, fmt.Sprintf("zoom %.1f", st.ZoomScale))
	}
	if title != "" {
		parts = append(parts, title)
	}
	parts = append(parts, helpText)
	return strings.Join(parts, " │ ")
}

func icon(st player.State) string {
	switch {
	case st.IsBuffering:
		return "◌"
	case st.IsLongPress && st.Rate > 1:
		return "⏩"
	case st.IsPlaying:
		return "▶"
	default:
		return "⏸"
	}
}

// formatDuration renders seconds as m:ss or h:mm:ss.
func formatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	d := time.Duration(math.Round(seconds)) * time.Second
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func toCell(p player.Point) (x, y int) {
	return int(p.X / CellW), int(p.Y / CellH)
}
