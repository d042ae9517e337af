package media

import (
	"math"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// SimConfig describes the simulated item.
type SimConfig struct {
	Duration float64
	FPS      float64

	// KeyframeInterval makes coarse seeks snap to multiples of it. Zero
	// disables snapping.
	KeyframeInterval float64
}

// Sim is a deterministic Player whose media clock follows the scheduler's
// clock. All methods must be called on the scheduler goroutine; observers
// are notified from scheduled tasks, never from inside a command.
type Sim struct {
	sched sched.Scheduler
	cfg   SimConfig

	anchorPos float64
	anchorAt  time.Time
	rate      float64
	playing   bool
	stalled   bool

	endTimer   sched.Timer
	stallTimer sched.Timer

	nextID   int
	statusFn map[int]func(Status)
	timeObs  map[int]*simObserver
}

type simObserver struct {
	interval time.Duration
	fn       func(float64)
	timer    sched.Timer
	done     bool
}

func NewSim(s sched.Scheduler, cfg SimConfig) *Sim {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	return &Sim{
		sched:    s,
		cfg:      cfg,
		rate:     1,
		anchorAt: s.Now(),
		statusFn: make(map[int]func(Status)),
		timeObs:  make(map[int]*simObserver),
	}
}

func (p *Sim) Play() error {
	if p.playing {
		return nil
	}
	p.reanchor()
	if p.rate == 0 {
		p.rate = 1
	}
	p.playing = true
	p.emit(Playing())
	p.armAll()
	p.scheduleEnd()
	return nil
}

func (p *Sim) Pause() error {
	if !p.playing {
		return nil
	}
	p.reanchor()
	p.playing = false
	p.stopTimers()
	p.emit(Paused())
	return nil
}

func (p *Sim) SetRate(rate float64) error {
	if !Finite(rate) {
		return nil
	}
	p.reanchor()
	p.rate = rate
	if p.playing {
		p.scheduleEnd()
	}
	return nil
}

func (p *Sim) Rate() float64 {
	return p.rate
}

func (p *Sim) Seek(seconds float64) error {
	if k := p.cfg.KeyframeInterval; k > 0 && Finite(seconds) {
		seconds = math.Round(seconds/k) * k
	}
	return p.SeekPrecisely(seconds)
}

func (p *Sim) SeekPrecisely(seconds float64) error {
	if !Finite(seconds) {
		return nil
	}
	p.anchorPos = p.clamp(seconds)
	p.anchorAt = p.sched.Now()
	if p.playing {
		p.scheduleEnd()
	}
	return nil
}

func (p *Sim) StepFrames(n int) error {
	if p.playing {
		if err := p.Pause(); err != nil {
			return err
		}
	}
	p.anchorPos = p.clamp(p.anchorPos + float64(n)/p.cfg.FPS)
	p.anchorAt = p.sched.Now()
	return nil
}

func (p *Sim) Duration() mo.Option[float64] {
	return KnownDuration(p.cfg.Duration)
}

func (p *Sim) Position() float64 {
	if !p.playing || p.stalled {
		return p.anchorPos
	}
	elapsed := p.sched.Now().Sub(p.anchorAt).Seconds()
	return p.clamp(p.anchorPos + p.rate*elapsed)
}

func (p *Sim) ObserveStatus(fn func(Status)) func() {
	id := p.id()
	p.statusFn[id] = fn
	return func() { delete(p.statusFn, id) }
}

func (p *Sim) ObserveTime(interval time.Duration, fn func(float64)) func() {
	if interval <= 0 {
		interval = time.Second / 30
	}
	id := p.id()
	o := &simObserver{interval: interval, fn: fn}
	p.timeObs[id] = o
	if p.playing {
		p.arm(o)
	}
	return func() {
		o.done = true
		if o.timer != nil {
			o.timer.Stop()
			o.timer = nil
		}
		delete(p.timeObs, id)
	}
}

// Stall freezes the media clock for d and reports buffering meanwhile.
func (p *Sim) Stall(d time.Duration) {
	if !p.playing || p.stalled {
		return
	}
	p.reanchor()
	p.stalled = true
	if p.endTimer != nil {
		p.endTimer.Stop()
	}
	p.emit(Waiting(WaitToMinimizeStalls))
	p.stallTimer = p.sched.AfterFunc(d, func() {
		p.stallTimer = nil
		p.anchorAt = p.sched.Now()
		p.stalled = false
		if p.playing {
			p.emit(Playing())
			p.scheduleEnd()
		}
	})
}

func (p *Sim) id() int {
	p.nextID++
	return p.nextID
}

func (p *Sim) clamp(s float64) float64 {
	if p.cfg.Duration > 0 {
		return lo.Clamp(s, 0, p.cfg.Duration)
	}
	return math.Max(s, 0)
}

func (p *Sim) reanchor() {
	p.anchorPos = p.Position()
	p.anchorAt = p.sched.Now()
}

// scheduleEnd pauses the item when the clock reaches an edge.
func (p *Sim) scheduleEnd() {
	if p.endTimer != nil {
		p.endTimer.Stop()
		p.endTimer = nil
	}
	if p.stalled || p.rate == 0 {
		return
	}

	var remaining float64
	switch {
	case p.rate > 0 && p.cfg.Duration > 0:
		remaining = (p.cfg.Duration - p.anchorPos) / p.rate
	case p.rate < 0:
		remaining = p.anchorPos / -p.rate
	default:
		return
	}

	p.endTimer = p.sched.AfterFunc(sched.Seconds(remaining), func() {
		p.endTimer = nil
		_ = p.Pause()
	})
}

func (p *Sim) emit(s Status) {
	fns := lo.Values(p.statusFn)
	p.sched.AfterFunc(0, func() {
		for _, fn := range fns {
			fn(s)
		}
	})
}

func (p *Sim) armAll() {
	for _, o := range p.timeObs {
		p.arm(o)
	}
}

func (p *Sim) arm(o *simObserver) {
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = p.sched.AfterFunc(o.interval, func() {
		o.timer = nil
		if !p.playing || o.done {
			return
		}
		o.fn(p.Position())
		if !o.done && p.playing {
			p.arm(o)
		}
	})
}

func (p *Sim) stopTimers() {
	for _, o := range p.timeObs {
		if o.timer != nil {
			o.timer.Stop()
			o.timer = nil
		}
	}
	if p.endTimer != nil {
		p.endTimer.Stop()
		p.endTimer = nil
	}
	if p.stallTimer != nil {
		p.stallTimer.Stop()
		p.stallTimer = nil
		p.stalled = false
	}
}
