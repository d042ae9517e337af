package tui

import (
	"fmt"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/gdamore/tcell/v2"
)

const (
	SeekSmall = 5.0
	SeekLarge = 30.0

	// Terminals only report key repeats, so a held key is released once
	// repeats stop for this long.
	keyReleaseDelay = 400 * time.Millisecond

	stallLength = 2 * time.Second
)

type EventResult int

const (
	EventContinue EventResult = iota
	EventQuit
)

func (a *App) HandleEvent(ev tcell.Event) EventResult {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return a.handleResize()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.gestures.Mouse(ev)
	}
	return EventContinue
}

func (a *App) handleResize() EventResult {
	a.render.Sync()
	a.render.RequestClear()
	layout := a.render.Layout()
	a.gestures.Resize(layout)
	a.dirty = true
	a.log.WithField("size", fmt.Sprintf("%dx%d", layout.Width, layout.Height)).Debug("resize")
	return EventContinue
}

func (a *App) handleKey(ev *tcell.EventKey) EventResult {
	if ev.Key() == tcell.KeyEscape && a.gestures.Active() {
		a.gestures.Cancel()
		return EventContinue
	}
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return EventQuit
	}

	st := a.coord.State()
	switch ev.Key() {
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	case tcell.KeyLeft:
		a.coord.Seek(st.CurrentTime - SeekSmall)
	case tcell.KeyRight:
		a.coord.Seek(st.CurrentTime + SeekSmall)
	case tcell.KeyDown:
		a.coord.Seek(st.CurrentTime - SeekLarge)
	case tcell.KeyUp:
		a.coord.Seek(st.CurrentTime + SeekLarge)
	case tcell.KeyHome:
		a.coord.Seek(0)
	case tcell.KeyEnd:
		a.coord.SeekRatio(1)
	}
	return EventContinue
}

func (a *App) handleRune(r rune) EventResult {
	view := a.gestures.Viewport()
	switch r {
	case 'q', 'Q':
		return EventQuit
	case ' ':
		a.coord.TogglePlay()
	case 'h':
		a.coord.HandleDoubleTap(player.Point{X: view.W * 0.25, Y: view.H / 2}, view)
	case 'l':
		a.coord.HandleDoubleTap(player.Point{X: view.W * 0.75, Y: view.H / 2}, view)
	case 'H':
		a.keys.press(player.DirectionBackward, view)
	case 'L':
		a.keys.press(player.DirectionForward, view)
	case ',':
		a.coord.StepFrames(-1)
	case '.':
		a.coord.StepFrames(1)
	case '+', '=':
		a.coord.SetZoomScale(a.coord.State().ZoomScale * wheelStep)
	case '-':
		a.coord.SetZoomScale(a.coord.State().ZoomScale / wheelStep)
	case '0':
		a.coord.SetZoomScale(1)
	case 'b':
		if a.stall != nil {
			a.stall(stallLength)
		}
	}
	return EventContinue
}

// keyHold turns key auto-repeat into a long press.
type keyHold struct {
	target    Target
	release   *sched.Debouncer
	direction player.Direction
}

func newKeyHold(t Target, s sched.Scheduler) *keyHold {
	return &keyHold{target: t, release: sched.NewDebouncer(s)}
}

func (k *keyHold) press(dir player.Direction, view player.Size) {
	if k.direction != dir {
		k.end()
		x := view.W * 0.75
		if dir == player.DirectionBackward {
			x = view.W * 0.25
		}
		k.direction = dir
		k.target.HandleLongPressBegin(player.Point{X: x, Y: view.H / 2}, view)
	}
	k.release.Schedule(keyReleaseDelay, k.end)
}

func (k *keyHold) end() {
	k.release.Cancel()
	if k.direction == player.DirectionNone {
		return
	}
	k.direction = player.DirectionNone
	k.target.HandleLongPressEnd()
}
