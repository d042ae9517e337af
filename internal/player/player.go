// Package player coordinates user interaction with a media.Player.
//
// A Coordinator reconciles the asynchronous playback clock with scrubbing,
// accumulates double-tap skip bursts, cycles the fast-forward/rewind rate
// ladder, runs the swipe-to-dismiss gesture alongside pinch zoom and keeps
// the ripple feedback shown for skips.
//
// A Coordinator is not safe for concurrent use. Every method must be called
// on the goroutine of the sched.Scheduler it was built with; callbacks from
// the media.Player are hopped onto it with Post.
package player

import (
	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

type Coordinator struct {
	player media.Player
	sched  sched.Scheduler
	cfg    Config
	log    logrus.FieldLogger

	playback PlaybackState
	slider   float64
	scrub    ScrubSession

	skip    *SkipBurst
	ladder  *RateLadder
	ripples *RippleStore
	dismiss *DismissGesture

	dismissAdmitted bool
	dismissOutcome  mo.Option[DismissOutcome]
	closeNotify     *sched.Debouncer
	closeFns        []func()

	longPress longPressState
	zoom      zoomState

	cancelStatus func()
	cancelTick   func()

	subs    map[int]func(State)
	nextSub int
	closed  bool
}

type longPressState struct {
	active     bool
	wasPlaying bool
	direction  Direction
	escalate   *sched.Debouncer
}

// New wires a coordinator to p and starts listening to its status stream.
func New(p media.Player, s sched.Scheduler, cfg Config, log logrus.FieldLogger) *Coordinator {
	cfg = cfg.withDefaults()
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	c := &Coordinator{
		player:         p,
		sched:          s,
		cfg:            cfg,
		log:            log.WithField("component", "coordinator"),
		skip:           NewSkipBurst(s, cfg.SkipStep, cfg.SkipWindow),
		ladder:         NewRateLadder(cfg.RateLadder),
		dismiss:        NewDismissGesture(cfg.Dismiss),
		dismissOutcome: mo.None[DismissOutcome](),
		closeNotify:    sched.NewDebouncer(s),
		longPress:      longPressState{escalate: sched.NewDebouncer(s)},
		zoom:           zoomState{scale: cfg.ZoomMin, min: cfg.ZoomMin, max: cfg.ZoomMax},
		subs:           make(map[int]func(State)),
	}
	c.ripples = NewRippleStore(s, cfg, c.notify)
	c.playback.Duration = p.Duration().OrElse(0)
	c.playback.CurrentTime = c.playback.clampTime(p.Position())
	c.slider = c.playback.Ratio()

	c.cancelStatus = p.ObserveStatus(func(st media.Status) {
		s.Post(func() { c.handleStatus(st) })
	})
	return c
}

// Subscribe registers fn for every state change and returns its remover.
// fn runs on the scheduler goroutine.
func (c *Coordinator) Subscribe(fn func(State)) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// OnClose registers fn for the dismiss close notification.
func (c *Coordinator) OnClose(fn func()) {
	c.closeFns = append(c.closeFns, fn)
}

// State returns the current snapshot.
func (c *Coordinator) State() State {
	return State{
		CurrentTime: c.playback.CurrentTime,
		Duration:    media.KnownDuration(c.playback.Duration),
		SliderRatio: c.slider,
		Rate:        c.player.Rate(),
		IsPlaying:   c.playback.IsPlaying,
		IsBuffering: c.playback.IsBuffering,
		IsTracking:  c.scrub.Active,
		IsLongPress: c.longPress.active,
		ZoomScale:   c.zoom.scale,
		Dismiss: DismissState{
			Mode:     c.dismiss.Mode(),
			Tracking: c.dismiss.Tracking(),
			Active:   c.dismiss.Active(),
			Offset:   c.dismiss.Offset(),
			Angle:    c.dismiss.Angle(),
			Anchor:   c.dismiss.Anchor(),
			Progress: c.dismiss.Progress(),
			Outcome:  c.dismissOutcome,
		},
		Ripples:      c.ripples.Items(),
		LatestRipple: c.ripples.Latest(),
		RippleExpiry: c.ripples.Expiry(),
	}
}

// Config returns the configuration in effect, defaults filled in.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// Playback returns the raw playback state.
func (c *Coordinator) Playback() PlaybackState {
	return c.playback
}

// Scrub returns the current scrub session.
func (c *Coordinator) Scrub() ScrubSession {
	return c.scrub
}

// Close detaches from the player and cancels every pending timer.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.stopTicks()
	if c.cancelStatus != nil {
		c.cancelStatus()
		c.cancelStatus = nil
	}
	c.skip.Reset()
	c.ripples.Close()
	c.closeNotify.Cancel()
	c.longPress.escalate.Cancel()
}

func (c *Coordinator) notify() {
	if c.closed || len(c.subs) == 0 {
		return
	}
	st := c.State()
	for _, id := range lo.Keys(c.subs) {
		if fn, ok := c.subs[id]; ok {
			fn(st)
		}
	}
}

// check logs a failed port command. Commands are fire-and-forget.
func (c *Coordinator) check(op string, err error) {
	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("player command failed")
	}
}
