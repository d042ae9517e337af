package player

// RateMode is the direction the ladder is climbing.
type RateMode int

const (
	RateIdle RateMode = iota
	RateForward
	RateRewind
)

// RateLadder cycles through a fixed set of speeds. The first cycle and any
// switch of direction start at the first step.
type RateLadder struct {
	steps []float64
	index int
	mode  RateMode
}

func NewRateLadder(steps []float64) *RateLadder {
	if len(steps) == 0 {
		steps = []float64{1}
	}
	return &RateLadder{steps: append([]float64(nil), steps...)}
}

func (l *RateLadder) CycleForward() float64 {
	return l.cycle(RateForward)
}

func (l *RateLadder) CycleRewind() float64 {
	return l.cycle(RateRewind)
}

func (l *RateLadder) cycle(mode RateMode) float64 {
	if l.mode != mode {
		l.mode = mode
		l.index = 0
	} else if l.index < len(l.steps)-1 {
		l.index++
	}
	return l.Rate()
}

// Rate is the current signed rate.
func (l *RateLadder) Rate() float64 {
	r := l.steps[l.index]
	if l.mode == RateRewind {
		return -r
	}
	return r
}

func (l *RateLadder) Reset() {
	l.index = 0
	l.mode = RateIdle
}

func (l *RateLadder) Index() int     { return l.index }
func (l *RateLadder) Mode() RateMode { return l.mode }
