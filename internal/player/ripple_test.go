package player

import (
	"testing"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/sched"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRippleStore(t *testing.T) {
	Convey("Given a ripple store", t, func() {
		m := sched.NewManual(epoch)
		expired := 0
		s := NewRippleStore(m, DefaultConfig(), func() { expired++ })
		view := Size{W: 1000, H: 500}

		Convey("Taps should be classified by the 0.4 and 0.6 edges", func() {
			So(s.Classify(Point{X: 399}, view), ShouldEqual, RegionLeft)
			So(s.Classify(Point{X: 400}, view), ShouldEqual, RegionMiddle)
			So(s.Classify(Point{X: 600}, view), ShouldEqual, RegionMiddle)
			So(s.Classify(Point{X: 601}, view), ShouldEqual, RegionRight)
			So(s.Classify(Point{X: 601}, Size{}), ShouldEqual, RegionMiddle)
		})

		Convey("A middle tap should add nothing", func() {
			_, ok := s.Add(Point{X: 500}, view, 10)
			So(ok, ShouldBeFalse)
			So(s.Items(), ShouldBeEmpty)
			So(m.Pending(), ShouldEqual, 0)
			So(s.Expiry().IsZero(), ShouldBeTrue)
		})

		Convey("Every add should push the shared expiry to now plus 0.9s", func() {
			item, ok := s.Add(Point{X: 100}, view, 10)
			So(ok, ShouldBeTrue)
			So(item.StartTime, ShouldEqual, epoch)
			So(s.Expiry(), ShouldEqual, epoch.Add(900*time.Millisecond))

			m.Advance(500 * time.Millisecond)
			s.Add(Point{X: 900}, view, 20)
			So(s.Expiry(), ShouldEqual, epoch.Add(1400*time.Millisecond))
			So(m.Pending(), ShouldEqual, 1)
		})

		Convey("Items added 0.5s apart should vanish together", func() {
			first, _ := s.Add(Point{X: 100}, view, 10)
			m.Advance(500 * time.Millisecond)
			second, _ := s.Add(Point{X: 900}, view, 20)

			m.Advance(890 * time.Millisecond)
			So(s.Items(), ShouldHaveLength, 2)
			So(s.Items()[0].ID, ShouldEqual, first.ID)
			latest, _ := s.Latest().Get()
			So(latest.ID, ShouldEqual, second.ID)
			So(expired, ShouldEqual, 0)

			m.Advance(10 * time.Millisecond)
			So(s.Items(), ShouldBeEmpty)
			So(s.Latest().IsAbsent(), ShouldBeTrue)
			So(expired, ShouldEqual, 1)
		})

		Convey("IDs should be unique", func() {
			a, _ := s.Add(Point{X: 100}, view, 10)
			b, _ := s.Add(Point{X: 100}, view, 10)
			So(a.ID, ShouldNotEqual, b.ID)
		})

		Convey("Close should drop the pending expiry", func() {
			s.Add(Point{X: 100}, view, 10)
			s.Close()
			m.Advance(5 * time.Second)
			So(expired, ShouldEqual, 0)
			So(s.Items(), ShouldHaveLength, 1)
		})
	})
}

func TestRippleAppearance(t *testing.T) {
	Convey("Ripple appearance", t, func() {
		item := RippleItem{StartTime: epoch}
		at := func(d time.Duration) (float64, float64) {
			return item.Appearance(epoch.Add(d), 600*time.Millisecond, 300*time.Millisecond)
		}

		r, o := at(0)
		So(r, ShouldEqual, 0.0)
		So(o, ShouldEqual, 1.0)

		r, o = at(300 * time.Millisecond)
		So(r, ShouldAlmostEqual, 0.5)
		So(o, ShouldEqual, 1.0)

		r, o = at(750 * time.Millisecond)
		So(r, ShouldEqual, 1.0)
		So(o, ShouldAlmostEqual, 0.5)

		r, o = at(2 * time.Second)
		So(r, ShouldEqual, 1.0)
		So(o, ShouldEqual, 0.0)

		r, _ = at(-time.Second)
		So(r, ShouldEqual, 0.0)
	})
}
