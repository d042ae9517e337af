package player

// CycleForward climbs the forward ladder and plays at the new rate.
func (c *Coordinator) CycleForward() float64 {
	return c.applyRate(c.ladder.CycleForward())
}

// CycleRewind climbs the rewind ladder and plays backwards at the new rate.
func (c *Coordinator) CycleRewind() float64 {
	return c.applyRate(c.ladder.CycleRewind())
}

func (c *Coordinator) applyRate(rate float64) float64 {
	c.check("rate", c.player.SetRate(rate))
	if !c.playback.IsPlaying {
		c.check("play", c.player.Play())
	}
	c.playback.IsPlaying = true
	c.log.WithField("rate", rate).Debug("rate changed")
	c.notify()
	return rate
}

// HandleLongPressBegin starts a press-and-hold boost. The left half of the
// viewport rewinds and the right half fast-forwards; the rate escalates
// while the press is held.
func (c *Coordinator) HandleLongPressBegin(location Point, viewport Size) {
	if c.longPress.active || c.scrub.Active {
		return
	}
	dir := DirectionForward
	if viewport.Valid() && location.Valid() {
		dir = DirectionFor(location, viewport)
	}

	c.longPress.active = true
	c.longPress.wasPlaying = c.playback.IsPlaying
	c.longPress.direction = dir

	// A forward press starts above normal speed.
	if c.cycle(dir) == 1 {
		c.cycle(dir)
	}
	c.scheduleEscalation()
}

// HandleLongPressEnd drops back to normal speed and the play state from
// before the press.
func (c *Coordinator) HandleLongPressEnd() {
	if !c.longPress.active {
		return
	}
	c.longPress.escalate.Cancel()
	c.longPress.active = false
	c.ladder.Reset()

	c.check("rate", c.player.SetRate(1))
	if !c.longPress.wasPlaying {
		c.check("pause", c.player.Pause())
		c.playback.IsPlaying = false
	}
	c.notify()
}

func (c *Coordinator) cycle(dir Direction) float64 {
	if dir == DirectionBackward {
		return c.CycleRewind()
	}
	return c.CycleForward()
}

func (c *Coordinator) scheduleEscalation() {
	if c.cfg.EscalateInterval <= 0 {
		return
	}
	c.longPress.escalate.Schedule(c.cfg.EscalateInterval, func() {
		if !c.longPress.active || c.closed {
			return
		}
		c.cycle(c.longPress.direction)
		c.scheduleEscalation()
	})
}
