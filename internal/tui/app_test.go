package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/renderer"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/gdamore/tcell/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func row(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp(t *testing.T) {
	Convey("Given an app on a simulated 100x20 terminal", t, func() {
		screen := tcell.NewSimulationScreen("UTF-8")
		render, err := renderer.NewWithScreen(screen)
		So(err, ShouldBeNil)
		screen.SetSize(100, 20)

		loop := sched.NewLoop(0)
		defer loop.Close()
		sim := media.NewSim(loop, media.SimConfig{Duration: 600})
		coord := player.New(sim, loop, player.DefaultConfig(), nil)

		app, err := New(Config{Coordinator: coord, Loop: loop, Renderer: render, Title: "card", Stall: sim.Stall})
		So(err, ShouldBeNil)
		defer app.cleanup()

		status := func() string {
			app.Render()
			return row(screen, 19)
		}

		Convey("The status line should show time, rate and title", func() {
			s := status()
			So(s, ShouldContainSubstring, "0:00/10:00")
			So(s, ShouldContainSubstring, "1x")
			So(s, ShouldContainSubstring, "card")
		})

		Convey("A right skip key should seek and draw its label", func() {
			So(app.HandleEvent(key('l')), ShouldEqual, EventContinue)
			So(status(), ShouldContainSubstring, "0:10/10:00")

			stage := strings.Join([]string{row(screen, 8), row(screen, 9), row(screen, 10)}, "\n")
			So(stage, ShouldContainSubstring, "10s »")
		})

		Convey("Arrow keys should seek", func() {
			app.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
			So(status(), ShouldContainSubstring, "0:30/10:00")
			app.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
			So(status(), ShouldContainSubstring, "0:25/10:00")
		})

		Convey("Zoom keys should show the scale", func() {
			app.HandleEvent(key('+'))
			So(status(), ShouldContainSubstring, "zoom 1.1")
			app.HandleEvent(key('0'))
			So(status(), ShouldNotContainSubstring, "zoom 1")
		})

		Convey("Quit keys should end the app", func() {
			So(app.HandleEvent(key('q')), ShouldEqual, EventQuit)
			So(app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)), ShouldEqual, EventQuit)
		})

		Convey("A stall while playing should show a buffering banner", func() {
			ctx, cancel := context.WithCancel(context.Background())
			stopped := make(chan struct{})
			go func() {
				_ = loop.Run(ctx)
				close(stopped)
			}()
			defer func() {
				cancel()
				<-stopped
			}()

			onLoop := func(fn func()) {
				done := make(chan struct{})
				loop.Post(func() {
					fn()
					close(done)
				})
				<-done
			}

			onLoop(func() { app.HandleEvent(key(' ')) })
			// let the playing status land before stalling
			time.Sleep(100 * time.Millisecond)
			onLoop(func() { app.HandleEvent(key('b')) })

			buffering := false
			deadline := time.Now().Add(2 * time.Second)
			for !buffering && time.Now().Before(deadline) {
				onLoop(func() { buffering = coord.State().IsBuffering })
				time.Sleep(5 * time.Millisecond)
			}
			So(buffering, ShouldBeTrue)

			onLoop(app.Render)
			So(row(screen, 10), ShouldContainSubstring, "Buffering...")
		})

		Convey("Escape should cancel a drag before quitting", func() {
			app.HandleEvent(tcell.NewEventMouse(50, 18, tcell.Button1, tcell.ModNone))
			So(coord.State().IsTracking, ShouldBeTrue)
			So(app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)), ShouldEqual, EventContinue)
			So(coord.State().IsTracking, ShouldBeFalse)
		})
	})
}
