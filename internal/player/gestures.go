package player

import (
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// PanEvent is one callback of a single-finger pan over the video.
type PanEvent struct {
	Phase       Phase
	Location    Point
	Translation Vector
	// Velocity is in view units per second and only read on PhaseEnded.
	Velocity Vector
	Viewport Size
}

// HandleDoubleTap skips backward or forward depending on which half of the
// viewport was tapped, accumulating consecutive taps into one burst.
func (c *Coordinator) HandleDoubleTap(location Point, viewport Size) SkipResult {
	if !viewport.Valid() || !location.Valid() {
		return SkipResult{Target: c.playback.CurrentTime}
	}

	res := c.skip.Tap(DirectionFor(location, viewport), c.playback.CurrentTime, c.playback.Duration)
	c.ripples.Add(location, viewport, res.Label)
	c.seekTo(res.Target, false)

	c.log.WithFields(logrus.Fields{
		"direction": res.Direction,
		"count":     res.Count,
		"target":    res.Target,
	}).Debug("skip")
	c.notify()
	return res
}

// ShouldBeginDismiss reports whether a pan with the given initial
// translation may drive the dismiss gesture.
func (c *Coordinator) ShouldBeginDismiss(translation Vector) bool {
	return c.dismiss.Admit(translation, c.IsZoomed(), c.longPress.active)
}

// HandlePan drives the dismiss gesture. A pan refused at PhaseBegan is
// ignored until the next PhaseBegan.
func (c *Coordinator) HandlePan(ev PanEvent) {
	switch ev.Phase {
	case PhaseBegan:
		c.dismissAdmitted = c.ShouldBeginDismiss(ev.Translation)
		if !c.dismissAdmitted {
			c.log.WithField("translation", ev.Translation).Debug("dismiss refused")
			return
		}
		c.closeNotify.Cancel()
		c.dismissOutcome = mo.None[DismissOutcome]()
		c.dismiss.Begin(ev.Location, ev.Viewport)
		c.dismiss.Change(ev.Translation)

	case PhaseChanged:
		if !c.dismissAdmitted {
			return
		}
		c.dismiss.Change(ev.Translation)

	case PhaseEnded:
		if !c.dismissAdmitted {
			return
		}
		c.dismissAdmitted = false
		out := c.dismiss.End(ev.Velocity)
		c.dismissOutcome = mo.Some(out)
		if out.Dismissed {
			c.scheduleClose(out)
		}

	case PhaseCancelled:
		if !c.dismissAdmitted {
			return
		}
		c.dismissAdmitted = false
		c.dismissOutcome = mo.Some(c.dismiss.Cancel())
	}
	c.notify()
}

func (c *Coordinator) scheduleClose(out DismissOutcome) {
	after := sched.Seconds(out.CloseAfter)
	c.log.WithFields(logrus.Fields{
		"duration":    out.Duration,
		"close_after": out.CloseAfter,
	}).Info("dismissing")

	c.closeNotify.Schedule(after, func() {
		if c.closed {
			return
		}
		c.log.Info("close notification")
		for _, fn := range c.closeFns {
			fn()
		}
	})
}
