package player

import (
	"math"

	"github.com/samber/lo"
)

// BeginScrub starts a scrub session and pauses playback. Beginning again
// while a session is open supersedes it but keeps the play state captured
// by the first begin.
func (c *Coordinator) BeginScrub() {
	if c.scrub.Active {
		c.scrub.PendingRatio = c.slider
		c.scrub.panStartRatio = c.slider
		c.notify()
		return
	}

	c.scrub = ScrubSession{
		Active:                true,
		WasPlayingBeforeScrub: c.playback.IsPlaying,
		PendingRatio:          c.slider,
		startTime:             c.playback.CurrentTime,
		panStartRatio:         c.slider,
	}
	if c.playback.IsPlaying {
		c.check("pause", c.player.Pause())
	}
	c.notify()
}

// UpdateScrub moves the playhead to ratio of the duration.
func (c *Coordinator) UpdateScrub(ratio float64) {
	if !c.scrub.Active {
		return
	}
	if !finite(ratio) {
		ratio = 0
	}
	ratio = lo.Clamp(ratio, 0, 1)
	c.scrub.PendingRatio = ratio
	c.slider = ratio
	if c.playback.Duration > 0 {
		c.seekTo(ratio*c.playback.Duration, true)
	}
	c.notify()
}

// EndScrub closes the session. A committed scrub snaps to the scrub step;
// a cancelled one returns to where the scrub began. Playback resumes if it
// was playing when the session began.
func (c *Coordinator) EndScrub(commit bool) {
	if !c.scrub.Active {
		return
	}
	session := c.scrub
	c.scrub = ScrubSession{}

	if d := c.playback.Duration; d > 0 {
		target := session.startTime
		if commit {
			target = Quantize(c.playback.CurrentTime, c.cfg.ScrubStep, d)
		}
		t := c.seekTo(target, true)
		c.slider = t / d
	}

	if session.WasPlayingBeforeScrub {
		c.resume()
	} else {
		c.playback.IsPlaying = false
	}
	c.notify()
}

// HandleScrubPan maps a two-finger horizontal pan onto the scrubber with a
// fixed sensitivity, independent of pan velocity.
func (c *Coordinator) HandleScrubPan(phase Phase, translation Vector) {
	switch phase {
	case PhaseBegan:
		c.BeginScrub()
	case PhaseChanged:
		if !translation.Valid() {
			return
		}
		c.UpdateScrub(c.scrub.panStartRatio + translation.X*c.cfg.PanSensitivity)
	case PhaseEnded:
		c.EndScrub(true)
	case PhaseCancelled:
		c.EndScrub(false)
	}
}

// Quantize snaps raw to the nearest multiple of step inside [0, duration].
func Quantize(raw, step, duration float64) float64 {
	if !finite(raw) || raw < 0 {
		raw = 0
	}
	if duration > 0 && raw > duration {
		raw = duration
	}
	if step <= 0 {
		return raw
	}

	snapped := math.Round(raw/step) * step
	if duration > 0 && snapped > duration {
		snapped = math.Floor(duration/step) * step
		for snapped > duration && snapped > 0 {
			snapped -= step
		}
	}
	return math.Max(snapped, 0)
}
