package player

import (
	"math"

	"github.com/0bVdnt/PixlTouch/internal/media"
)

// handleStatus folds a time-control status into the playback state.
func (c *Coordinator) handleStatus(st media.Status) {
	if c.closed {
		return
	}
	switch st.Kind {
	case media.StatusPlaying:
		c.playback.IsPlaying = true
		c.playback.IsBuffering = false
		c.startTicks()
	case media.StatusPaused:
		c.stopTicks()
		// The scrubber paused playback itself; keep showing the play state.
		if !c.scrub.Active {
			c.playback.IsPlaying = false
		}
		c.playback.IsBuffering = false
	case media.StatusWaiting:
		c.playback.IsBuffering = st.Reason.Buffering()
	}
	c.log.WithField("status", st.Kind).WithField("reason", st.Reason).Debug("player status")
	c.notify()
}

// handleTick applies one periodic clock update.
func (c *Coordinator) handleTick(seconds float64) {
	if c.closed || !finite(seconds) {
		return
	}
	if d, ok := c.player.Duration().Get(); ok {
		c.playback.Duration = d
	}
	c.playback.CurrentTime = c.playback.clampTime(math.Max(seconds, 0))
	if !c.scrub.Active {
		c.slider = c.playback.Ratio()
	}
	c.notify()
}

func (c *Coordinator) startTicks() {
	if c.cancelTick != nil {
		return
	}
	c.cancelTick = c.player.ObserveTime(c.cfg.TickInterval, func(seconds float64) {
		c.sched.Post(func() { c.handleTick(seconds) })
	})
}

func (c *Coordinator) stopTicks() {
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
}
