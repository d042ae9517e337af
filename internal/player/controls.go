package player

import "github.com/samber/lo"

// TogglePlay flips between play and pause. During a scrub it only flips
// whether playback resumes when the scrub ends.
func (c *Coordinator) TogglePlay() {
	if c.scrub.Active {
		c.scrub.WasPlayingBeforeScrub = !c.scrub.WasPlayingBeforeScrub
		c.notify()
		return
	}
	if c.playback.IsPlaying {
		c.Pause()
	} else {
		c.Play()
	}
}

func (c *Coordinator) Play() {
	if c.scrub.Active {
		c.scrub.WasPlayingBeforeScrub = true
		c.notify()
		return
	}
	c.resume()
	c.notify()
}

func (c *Coordinator) Pause() {
	if c.scrub.Active {
		c.scrub.WasPlayingBeforeScrub = false
		c.notify()
		return
	}
	c.check("pause", c.player.Pause())
	c.playback.IsPlaying = false
	c.notify()
}

func (c *Coordinator) resume() {
	if c.playback.AtEnd() {
		c.seekTo(0, true)
	}
	c.check("play", c.player.Play())
	c.playback.IsPlaying = true
}

// Seek requests a coarse seek to seconds.
func (c *Coordinator) Seek(seconds float64) {
	c.seekTo(seconds, false)
	c.notify()
}

// SeekPrecisely requests a zero-tolerance seek to seconds.
func (c *Coordinator) SeekPrecisely(seconds float64) {
	c.seekTo(seconds, true)
	c.notify()
}

// SeekRatio seeks to a fraction of a known duration.
func (c *Coordinator) SeekRatio(ratio float64) {
	if c.playback.Duration <= 0 || !finite(ratio) {
		return
	}
	c.Seek(lo.Clamp(ratio, 0, 1) * c.playback.Duration)
}

// StepFrames pauses and moves n frames.
func (c *Coordinator) StepFrames(n int) {
	if n == 0 {
		return
	}
	if c.playback.IsPlaying && !c.scrub.Active {
		c.check("pause", c.player.Pause())
		c.playback.IsPlaying = false
	}
	c.check("step", c.player.StepFrames(n))
	c.playback.CurrentTime = c.playback.clampTime(c.player.Position())
	if !c.scrub.Active {
		c.slider = c.playback.Ratio()
	}
	c.notify()
}

// seekTo clamps, issues the seek and updates the clock optimistically.
func (c *Coordinator) seekTo(seconds float64, precise bool) float64 {
	t := c.playback.clampTime(seconds)
	if precise {
		c.check("seek-precise", c.player.SeekPrecisely(t))
	} else {
		c.check("seek", c.player.Seek(t))
	}
	c.playback.CurrentTime = t
	if !c.scrub.Active {
		c.slider = c.playback.Ratio()
	}
	return t
}
