package tui

import (
	"time"

	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/renderer"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
)

// A terminal cell in view units. Cells are about twice as tall as wide.
const (
	CellW = 10.0
	CellH = 20.0
)

const (
	doubleClickWindow = 350 * time.Millisecond
	longPressDelay    = 500 * time.Millisecond
	velocityWindow    = 120 * time.Millisecond
	wheelStep         = 1.1
)

// Target receives recognised gestures. *player.Coordinator implements it.
type Target interface {
	HandleDoubleTap(location player.Point, viewport player.Size) player.SkipResult
	HandlePan(ev player.PanEvent)
	HandleScrubPan(phase player.Phase, translation player.Vector)
	HandlePinch(phase player.Phase, scale float64)
	HandleLongPressBegin(location player.Point, viewport player.Size)
	HandleLongPressEnd()

	BeginScrub()
	UpdateScrub(ratio float64)
	EndScrub(commit bool)
}

type dragKind int

const (
	dragNone dragKind = iota
	dragPending
	dragBar
	dragPan
	dragScrubPan
	dragHold
)

type sample struct {
	at time.Time
	p  player.Point
}

// Gestures turns raw tcell mouse events into touch-style gestures. It must
// be driven from the scheduler goroutine.
type Gestures struct {
	target Target
	sched  sched.Scheduler
	hold   *sched.Debouncer

	layout renderer.Layout

	buttons tcell.ButtonMask
	kind    dragKind
	origin  player.Point
	samples []sample

	lastClick   time.Time
	lastClickAt player.Point
}

func NewGestures(t Target, s sched.Scheduler) *Gestures {
	return &Gestures{
		target: t,
		sched:  s,
		hold:   sched.NewDebouncer(s),
	}
}

// Resize updates the layout used for hit testing.
func (g *Gestures) Resize(l renderer.Layout) {
	g.layout = l
}

// Viewport is the stage size in view units.
func (g *Gestures) Viewport() player.Size {
	return player.Size{W: float64(g.layout.Stage.W) * CellW, H: float64(g.layout.Stage.H) * CellH}
}

// ToView maps the centre of a cell to view units.
func ToView(x, y int) player.Point {
	return player.Point{X: (float64(x) + 0.5) * CellW, Y: (float64(y) + 0.5) * CellH}
}

// Mouse handles one mouse event.
func (g *Gestures) Mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()

	switch {
	case btn&tcell.WheelUp != 0:
		g.pinch(wheelStep)
		return
	case btn&tcell.WheelDown != 0:
		g.pinch(1 / wheelStep)
		return
	}

	pressed := btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	switch {
	case g.buttons == 0 && pressed != 0:
		g.press(x, y, pressed)
	case g.buttons != 0 && pressed != 0:
		g.move(x, y)
	case g.buttons != 0 && pressed == 0:
		g.release(x, y)
	}
}

func (g *Gestures) press(x, y int, buttons tcell.ButtonMask) {
	g.buttons = buttons
	g.origin = ToView(x, y)
	g.samples = []sample{{at: g.sched.Now(), p: g.origin}}

	switch {
	case buttons&tcell.Button1 != 0 && g.layout.OnBar(x, y):
		g.kind = dragBar
		g.target.BeginScrub()
		g.target.UpdateScrub(g.layout.RatioAt(x))

	case buttons&(tcell.Button2|tcell.Button3) != 0:
		g.kind = dragScrubPan
		g.target.HandleScrubPan(player.PhaseBegan, player.Vector{})

	case g.layout.Stage.Contains(x, y):
		g.kind = dragPending
		at := g.origin
		g.hold.Schedule(longPressDelay, func() {
			if g.kind != dragPending {
				return
			}
			g.kind = dragHold
			g.target.HandleLongPressBegin(at, g.Viewport())
		})

	default:
		g.kind = dragNone
	}
}

func (g *Gestures) move(x, y int) {
	p := ToView(x, y)
	g.track(p)
	translation := p.Sub(g.origin)

	switch g.kind {
	case dragBar:
		g.target.UpdateScrub(g.layout.RatioAt(x))

	case dragScrubPan:
		g.target.HandleScrubPan(player.PhaseChanged, translation)

	case dragPending:
		if translation == (player.Vector{}) {
			return
		}
		g.hold.Cancel()
		g.kind = dragPan
		g.target.HandlePan(player.PanEvent{
			Phase:       player.PhaseBegan,
			Location:    g.origin,
			Translation: translation,
			Viewport:    g.Viewport(),
		})
		g.target.HandlePan(player.PanEvent{
			Phase:       player.PhaseChanged,
			Location:    p,
			Translation: translation,
			Viewport:    g.Viewport(),
		})

	case dragPan:
		g.target.HandlePan(player.PanEvent{
			Phase:       player.PhaseChanged,
			Location:    p,
			Translation: translation,
			Viewport:    g.Viewport(),
		})
	}
}

func (g *Gestures) release(x, y int) {
	p := ToView(x, y)
	g.track(p)
	translation := p.Sub(g.origin)
	kind := g.kind
	g.reset()

	switch kind {
	case dragBar:
		g.target.UpdateScrub(g.layout.RatioAt(x))
		g.target.EndScrub(true)

	case dragScrubPan:
		g.target.HandleScrubPan(player.PhaseEnded, translation)

	case dragPan:
		g.target.HandlePan(player.PanEvent{
			Phase:       player.PhaseEnded,
			Location:    p,
			Translation: translation,
			Velocity:    g.velocity(),
			Viewport:    g.Viewport(),
		})

	case dragHold:
		g.target.HandleLongPressEnd()

	case dragPending:
		g.click(p)
	}
	g.samples = nil
}

// click turns a pair of quick clicks into a double tap.
func (g *Gestures) click(p player.Point) {
	now := g.sched.Now()
	near := abs(p.X-g.lastClickAt.X) <= 2*CellW && abs(p.Y-g.lastClickAt.Y) <= CellH
	if !g.lastClick.IsZero() && now.Sub(g.lastClick) <= doubleClickWindow && near {
		g.target.HandleDoubleTap(p, g.Viewport())
		// A third click continues the burst as another double tap.
		g.lastClick = now
		g.lastClickAt = p
		return
	}
	g.lastClick = now
	g.lastClickAt = p
}

// Cancel abandons the gesture in progress.
func (g *Gestures) Cancel() {
	kind := g.kind
	g.reset()
	g.samples = nil

	switch kind {
	case dragBar:
		g.target.EndScrub(false)
	case dragScrubPan:
		g.target.HandleScrubPan(player.PhaseCancelled, player.Vector{})
	case dragPan:
		g.target.HandlePan(player.PanEvent{Phase: player.PhaseCancelled, Viewport: g.Viewport()})
	case dragHold:
		g.target.HandleLongPressEnd()
	}
}

// Active reports whether a drag is in progress.
func (g *Gestures) Active() bool {
	return g.kind != dragNone
}

func (g *Gestures) reset() {
	g.hold.Cancel()
	g.buttons = 0
	g.kind = dragNone
}

func (g *Gestures) pinch(scale float64) {
	g.target.HandlePinch(player.PhaseBegan, 1)
	g.target.HandlePinch(player.PhaseChanged, scale)
	g.target.HandlePinch(player.PhaseEnded, scale)
}

func (g *Gestures) track(p player.Point) {
	now := g.sched.Now()
	g.samples = append(g.samples, sample{at: now, p: p})
	g.samples = lo.Filter(g.samples, func(s sample, _ int) bool {
		return now.Sub(s.at) <= velocityWindow
	})
}

// velocity over the recent samples, in view units per second.
func (g *Gestures) velocity() player.Vector {
	if len(g.samples) < 2 {
		return player.Vector{}
	}
	first, last := g.samples[0], g.samples[len(g.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return player.Vector{}
	}
	return last.p.Sub(first.p).Scale(1 / dt)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
