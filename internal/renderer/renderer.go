package renderer

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

type Renderer struct {
	mu         sync.Mutex
	screen     tcell.Screen
	closed     bool
	needsClear bool
}

// Creates a renderer on the controlling terminal
func New() (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewWithScreen(screen)
}

// NewWithScreen initialises screen and takes ownership of it.
func NewWithScreen(screen tcell.Screen) (*Renderer, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	return &Renderer{
		screen:     screen,
		needsClear: true,
	}, nil
}

// Returns underlying tcell screen
func (r *Renderer) Screen() tcell.Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screen
}

// Returns terminal dimensions
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen == nil || r.closed {
		return 80, 24
	}
	return r.screen.Size()
}

// Layout of the current screen
func (r *Renderer) Layout() Layout {
	return LayoutFor(r.Size())
}

// marks that full clear is needed
func (r *Renderer) RequestClear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsClear = true
}

// returns and clears the needsClear flag
func (r *Renderer) NeedsClear() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := r.needsClear
	r.needsClear = false
	return result
}

// Forces a full screen refresh
func (r *Renderer) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen != nil && !r.closed {
		r.screen.Sync()
	}
}

// Pushes pending cells to the terminal
func (r *Renderer) Show() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screen != nil && !r.closed {
		r.screen.Show()
	}
}

// Returns whether the renderer is closed
func (r *Renderer) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed || r.screen == nil
}

// Shuts down the renderer
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	if r.screen != nil {
		r.screen.Fini()
		r.screen = nil
	}
}

// Clears the stage above the progress and status rows
func (r *Renderer) ClearStage() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	stage := LayoutFor(w, h).Stage
	style := tcell.StyleDefault.Background(tcell.ColorBlack)

	for y := stage.Y; y < stage.Y+stage.H; y++ {
		for x := stage.X; x < stage.X+stage.W; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
