package player

import (
	"math"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/sched"
)

// Direction of a skip burst or a long press.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionBackward
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBackward:
		return "backward"
	case DirectionForward:
		return "forward"
	default:
		return "none"
	}
}

// DirectionFor splits the viewport into a backward left half and a forward
// right half.
func DirectionFor(location Point, viewport Size) Direction {
	if location.X < viewport.W/2 {
		return DirectionBackward
	}
	return DirectionForward
}

// SkipResult is the outcome of one tap in a burst.
type SkipResult struct {
	Direction Direction
	Count     int
	Seconds   float64
	Target    float64
	Label     int
}

// SkipBurst turns repeated same-direction taps into growing seek offsets.
// Every tap restarts the idle window; a direction change or an idle expiry
// starts a new burst.
type SkipBurst struct {
	step   float64
	window time.Duration
	idle   *sched.Debouncer

	count     int
	baseTime  float64
	direction Direction
}

func NewSkipBurst(s sched.Scheduler, step float64, window time.Duration) *SkipBurst {
	return &SkipBurst{
		step:   step,
		window: window,
		idle:   sched.NewDebouncer(s),
	}
}

// Tap registers one tap given the current media time and duration. A
// duration of zero means unknown and disables the upper clamp.
func (b *SkipBurst) Tap(dir Direction, currentTime, duration float64) SkipResult {
	if dir == DirectionNone {
		return SkipResult{Target: currentTime}
	}
	if !finite(currentTime) || currentTime < 0 {
		currentTime = 0
	}

	if b.direction == DirectionNone || dir != b.direction {
		b.count = 0
		b.baseTime = currentTime
		b.direction = dir
	}
	b.count++

	skip := b.step * float64(b.count)
	var target float64
	if dir == DirectionBackward {
		target = math.Max(b.baseTime-skip, 0)
	} else {
		target = b.baseTime + skip
		if duration > 0 {
			target = math.Min(target, duration)
		}
	}

	label := 0
	if target > 0 {
		label = int(math.Round(skip))
	}

	b.idle.Schedule(b.window, b.Reset)

	return SkipResult{
		Direction: dir,
		Count:     b.count,
		Seconds:   skip,
		Target:    target,
		Label:     label,
	}
}

// Reset ends the burst and cancels its idle timer.
func (b *SkipBurst) Reset() {
	b.idle.Cancel()
	b.count = 0
	b.baseTime = 0
	b.direction = DirectionNone
}

func (b *SkipBurst) Count() int           { return b.count }
func (b *SkipBurst) BaseTime() float64    { return b.baseTime }
func (b *SkipBurst) Direction() Direction { return b.direction }
