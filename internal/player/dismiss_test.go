package player

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDismissGesture(t *testing.T) {
	view := Size{W: 400, H: 500}

	Convey("Given a rotation dismiss", t, func() {
		d := NewDismissGesture(DefaultConfig().Dismiss)

		Convey("Admission should be suppressed only by horizontal dominance", func() {
			So(d.Admit(Vector{X: 30, Y: 10}, false, false), ShouldBeFalse)
			So(d.Admit(Vector{X: 10, Y: 30}, false, false), ShouldBeTrue)
			So(d.Admit(Vector{X: 20, Y: -20}, false, false), ShouldBeTrue)
			So(d.Admit(Vector{}, false, false), ShouldBeTrue)
			So(d.Admit(Vector{Y: 30}, true, false), ShouldBeFalse)
			So(d.Admit(Vector{Y: 30}, false, true), ShouldBeFalse)
		})

		Convey("Begin should anchor on the touch point", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.InitialCenter(), ShouldResemble, Point{X: 200, Y: 250})
			So(d.Anchor(), ShouldResemble, Point{X: 300, Y: 100})
			So(d.Tracking(), ShouldBeTrue)
		})

		Convey("Small vertical moves should not activate the drag", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			d.Change(Vector{X: 15, Y: 10})
			So(d.Active(), ShouldBeFalse)
			So(d.Offset(), ShouldResemble, Vector{})
		})

		Convey("Once active it should follow with a signed tilt", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			d.Change(Vector{X: 5, Y: 30})
			So(d.Active(), ShouldBeTrue)
			So(d.Offset(), ShouldResemble, Vector{X: 5, Y: 30})
			So(d.Angle(), ShouldAlmostEqual, 30.0/500*math.Pi/4)

			d.Change(Vector{X: 5, Y: 5})
			So(d.Active(), ShouldBeTrue)
			So(d.Offset(), ShouldResemble, Vector{X: 5, Y: 5})

			d.Change(Vector{Y: 2000})
			So(d.Angle(), ShouldAlmostEqual, math.Pi/4)
			So(d.Progress(), ShouldEqual, 1.0)
		})

		Convey("A touch left of centre should tilt the other way", func() {
			d.Begin(Point{X: 50, Y: 100}, view)
			d.Change(Vector{Y: 100})
			So(d.Angle(), ShouldAlmostEqual, -100.0/500*math.Pi/4)
		})

		Convey("A fast vertical release should dismiss", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			d.Change(Vector{Y: 50})
			out := d.End(Vector{Y: 1000})
			So(out.Dismissed, ShouldBeTrue)
			So(out.Duration, ShouldAlmostEqual, 1.4)
			So(out.CloseAfter, ShouldAlmostEqual, 0.7)
			So(out.TargetAlpha, ShouldEqual, 0.0)
			So(out.TargetOffset.Y, ShouldAlmostEqual, 50+1000*0.998)
			So(out.TargetAngle, ShouldAlmostEqual, math.Pi/3)
			So(d.Tracking(), ShouldBeFalse)
		})

		Convey("Very fast releases should clamp to the floor", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{Y: 100000}).Duration, ShouldAlmostEqual, 0.2)
		})

		Convey("Slow or horizontal releases should snap back", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			d.Change(Vector{Y: 80})
			out := d.End(Vector{Y: 400})
			So(out.Dismissed, ShouldBeFalse)
			So(out.TargetAlpha, ShouldEqual, 1.0)
			So(d.Offset(), ShouldResemble, Vector{})

			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{X: 2000, Y: 1500}).Dismissed, ShouldBeFalse)

			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{X: math.NaN(), Y: 1500}).Dismissed, ShouldBeFalse)
		})
	})

	Convey("Given a vertical dismiss", t, func() {
		cfg := DefaultConfig().Dismiss
		cfg.Mode = DismissVertical
		d := NewDismissGesture(cfg)

		Convey("It should ignore horizontal translation", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			d.Change(Vector{X: 40, Y: 60})
			So(d.Offset(), ShouldResemble, Vector{Y: 60})
			So(d.Angle(), ShouldEqual, 0.0)
		})

		Convey("It should use its own duration curve and floor", func() {
			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{Y: 1000}).Duration, ShouldAlmostEqual, 1.0)
			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{Y: 100000}).Duration, ShouldAlmostEqual, 0.15)
			d.Begin(Point{X: 300, Y: 100}, view)
			So(d.End(Vector{Y: 501}).Duration, ShouldAlmostEqual, 2.0/(501.0/500))
		})
	})

	Convey("A disabled dismiss should admit nothing", t, func() {
		cfg := DefaultConfig().Dismiss
		cfg.Mode = DismissNone
		So(NewDismissGesture(cfg).Admit(Vector{Y: 100}, false, false), ShouldBeFalse)
	})
}

func TestCoordinatorDismiss(t *testing.T) {
	Convey("Given a coordinator", t, func() {
		c, _, m := newTestCoordinator(100)
		view := Size{W: 400, H: 500}
		closed := 0
		c.OnClose(func() { closed++ })

		drag := func(velocity Vector) {
			c.HandlePan(PanEvent{Phase: PhaseBegan, Location: Point{X: 300, Y: 200}, Viewport: view})
			c.HandlePan(PanEvent{Phase: PhaseChanged, Translation: Vector{Y: 60}, Viewport: view})
			c.HandlePan(PanEvent{Phase: PhaseEnded, Translation: Vector{Y: 60}, Velocity: velocity, Viewport: view})
		}

		Convey("A dismiss should notify close halfway through the exit", func() {
			drag(Vector{Y: 1000})
			out, ok := c.State().Dismiss.Outcome.Get()
			So(ok, ShouldBeTrue)
			So(out.Dismissed, ShouldBeTrue)

			m.Advance(690 * time.Millisecond)
			So(closed, ShouldEqual, 0)
			m.Advance(20 * time.Millisecond)
			So(closed, ShouldEqual, 1)
			m.Advance(5 * time.Second)
			So(closed, ShouldEqual, 1)
		})

		Convey("A new drag should supersede a pending close", func() {
			drag(Vector{Y: 1000})
			m.Advance(300 * time.Millisecond)
			c.HandlePan(PanEvent{Phase: PhaseBegan, Location: Point{X: 300, Y: 200}, Viewport: view})
			So(c.State().Dismiss.Outcome.IsAbsent(), ShouldBeTrue)
			c.HandlePan(PanEvent{Phase: PhaseCancelled})
			m.Advance(5 * time.Second)
			So(closed, ShouldEqual, 0)
		})

		Convey("The live state should track the drag", func() {
			c.HandlePan(PanEvent{Phase: PhaseBegan, Location: Point{X: 300, Y: 200}, Viewport: view})
			c.HandlePan(PanEvent{Phase: PhaseChanged, Translation: Vector{Y: 100}, Viewport: view})
			st := c.State().Dismiss
			So(st.Active, ShouldBeTrue)
			So(st.Progress, ShouldAlmostEqual, 0.2)
			So(st.Mode, ShouldEqual, DismissRotation)
		})

		Convey("A snap-back should not notify close", func() {
			drag(Vector{Y: 100})
			m.Advance(5 * time.Second)
			So(closed, ShouldEqual, 0)
			out, _ := c.State().Dismiss.Outcome.Get()
			So(out.Dismissed, ShouldBeFalse)
		})

		Convey("While zoomed the pan should be ignored", func() {
			c.HandlePinch(PhaseBegan, 1)
			c.HandlePinch(PhaseChanged, 2)
			So(c.IsZoomed(), ShouldBeTrue)

			drag(Vector{Y: 1000})
			So(c.State().Dismiss.Tracking, ShouldBeFalse)
			So(c.State().Dismiss.Outcome.IsAbsent(), ShouldBeTrue)
			m.Advance(5 * time.Second)
			So(closed, ShouldEqual, 0)
		})

		Convey("A horizontal pan should not start the gesture", func() {
			c.HandlePan(PanEvent{Phase: PhaseBegan, Location: Point{X: 300, Y: 200}, Translation: Vector{X: 12, Y: 2}, Viewport: view})
			c.HandlePan(PanEvent{Phase: PhaseChanged, Translation: Vector{X: 10, Y: 90}, Viewport: view})
			So(c.State().Dismiss.Active, ShouldBeFalse)
		})
	})
}

func TestZoom(t *testing.T) {
	Convey("Given a coordinator", t, func() {
		c, _, _ := newTestCoordinator(100)

		Convey("Pinch scale should be relative to the start of the pinch", func() {
			c.HandlePinch(PhaseBegan, 1)
			c.HandlePinch(PhaseChanged, 2)
			c.HandlePinch(PhaseEnded, 2)
			c.HandlePinch(PhaseBegan, 1)
			c.HandlePinch(PhaseChanged, 1.5)
			So(c.State().ZoomScale, ShouldAlmostEqual, 3)
		})

		Convey("Scale should clamp to the limits", func() {
			c.SetZoomScale(10)
			So(c.State().ZoomScale, ShouldEqual, 4.0)
			c.SetZoomScale(0.2)
			So(c.State().ZoomScale, ShouldEqual, 1.0)
			So(c.IsZoomed(), ShouldBeFalse)
		})

		Convey("A cancelled pinch should restore the starting scale", func() {
			c.SetZoomScale(2)
			c.HandlePinch(PhaseBegan, 1)
			c.HandlePinch(PhaseChanged, 3)
			c.HandlePinch(PhaseCancelled, 0)
			So(c.State().ZoomScale, ShouldEqual, 2.0)
		})
	})
}
