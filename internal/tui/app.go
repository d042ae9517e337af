// Package tui hosts the interaction engine in a terminal. Mouse and key
// events stand in for touch gestures and the stage shows a test card that
// follows the player state.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/renderer"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/sirupsen/logrus"
)

const frameInterval = 33 * time.Millisecond

type Config struct {
	Coordinator *player.Coordinator
	Loop        *sched.Loop
	Renderer    *renderer.Renderer
	Logger      logrus.FieldLogger
	Title       string

	// Stall, when set, simulates a buffering stall of the given length.
	Stall func(time.Duration)
}

type App struct {
	coord    *player.Coordinator
	loop     *sched.Loop
	render   *renderer.Renderer
	log      logrus.FieldLogger
	gestures *Gestures
	keys     *keyHold
	title    string
	stall    func(time.Duration)

	animation animation
	dirty     bool

	cancel   context.CancelFunc
	doneChan chan struct{}
}

func New(cfg Config) (*App, error) {
	if cfg.Coordinator == nil || cfg.Loop == nil || cfg.Renderer == nil {
		return nil, errors.New("tui: coordinator, loop and renderer are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	a := &App{
		coord:    cfg.Coordinator,
		loop:     cfg.Loop,
		render:   cfg.Renderer,
		log:      log.WithField("component", "tui"),
		title:    cfg.Title,
		stall:    cfg.Stall,
		dirty:    true,
		doneChan: make(chan struct{}),
	}
	a.gestures = NewGestures(a.coord, a.loop)
	a.gestures.Resize(a.render.Layout())
	a.keys = newKeyHold(a.coord, a.loop)

	a.coord.Subscribe(func(player.State) { a.dirty = true })
	a.coord.OnClose(a.Stop)
	return a, nil
}

// Run drives the loop until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	defer a.cleanup()

	go a.pollEvents(ctx)
	go a.frames(ctx)

	a.log.Debug("event loop started")
	err := a.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.log.Debug("event loop stopped")
		return nil
	}
	return err
}

// Stop ends Run. It is safe to call from any goroutine.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) pollEvents(ctx context.Context) {
	screen := a.render.Screen()
	if screen == nil {
		return
	}

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-a.doneChan:
			return
		case <-ctx.Done():
			return
		default:
		}
		a.loop.Post(func() {
			if a.HandleEvent(ev) == EventQuit {
				a.Stop()
			}
		})
	}
}

func (a *App) frames(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.loop.Post(a.Render)
		}
	}
}

func (a *App) cleanup() {
	close(a.doneChan)
	a.coord.Close()
	a.render.Close()
}
