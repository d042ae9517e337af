package player

import (
	"time"

	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Region is the horizontal band of the viewport a tap landed in.
type Region int

const (
	RegionMiddle Region = iota
	RegionLeft
	RegionRight
)

func (r Region) String() string {
	switch r {
	case RegionLeft:
		return "left"
	case RegionRight:
		return "right"
	default:
		return "middle"
	}
}

// RippleItem is the visual acknowledgement of one skip tap.
type RippleItem struct {
	ID        uuid.UUID
	Center    Point
	Region    Region
	StartTime time.Time
	SkipLabel int
}

// Appearance returns the ring radius as a fraction of its maximum and the
// opacity of the item at now. Items past their fade stay at zero opacity
// until the store is cleared.
func (i RippleItem) Appearance(now time.Time, animation, fadeOut time.Duration) (radius, opacity float64) {
	elapsed := now.Sub(i.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	if animation <= 0 {
		radius = 1
	} else {
		radius = lo.Clamp(elapsed.Seconds()/animation.Seconds(), 0, 1)
	}

	fade := elapsed - animation
	switch {
	case fade <= 0:
		opacity = 1
	case fadeOut <= 0:
		opacity = 0
	default:
		opacity = 1 - lo.Clamp(fade.Seconds()/fadeOut.Seconds(), 0, 1)
	}
	return radius, opacity
}

// RippleStore holds the ripples currently on screen. All items share one
// expiry, pushed back by every add, and are cleared together.
type RippleStore struct {
	sched     sched.Scheduler
	animation time.Duration
	fadeOut   time.Duration
	leftEdge  float64
	rightEdge float64

	items    []RippleItem
	latest   mo.Option[RippleItem]
	expiry   *sched.Debouncer
	onExpire func()
}

func NewRippleStore(s sched.Scheduler, cfg Config, onExpire func()) *RippleStore {
	return &RippleStore{
		sched:     s,
		animation: cfg.RippleAnimation,
		fadeOut:   cfg.RippleFadeOut,
		leftEdge:  cfg.RippleLeftEdge,
		rightEdge: cfg.RippleRightEdge,
		latest:    mo.None[RippleItem](),
		expiry:    sched.NewDebouncer(s),
		onExpire:  onExpire,
	}
}

// Classify maps a location to a region by its fraction of the viewport width.
func (s *RippleStore) Classify(location Point, viewport Size) Region {
	if !viewport.Valid() || !location.Valid() {
		return RegionMiddle
	}
	frac := location.X / viewport.W
	switch {
	case frac < s.leftEdge:
		return RegionLeft
	case frac > s.rightEdge:
		return RegionRight
	default:
		return RegionMiddle
	}
}

// Add appends a ripple unless the tap is in the middle band.
func (s *RippleStore) Add(location Point, viewport Size, label int) (RippleItem, bool) {
	region := s.Classify(location, viewport)
	if region == RegionMiddle {
		return RippleItem{}, false
	}

	item := RippleItem{
		ID:        uuid.New(),
		Center:    location,
		Region:    region,
		StartTime: s.sched.Now(),
		SkipLabel: max(label, 0),
	}
	s.items = append(s.items, item)
	s.latest = mo.Some(item)
	s.expiry.Schedule(s.animation+s.fadeOut, s.clear)
	return item, true
}

func (s *RippleStore) clear() {
	s.items = nil
	s.latest = mo.None[RippleItem]()
	if s.onExpire != nil {
		s.onExpire()
	}
}

// Items returns a copy of the visible ripples in insertion order.
func (s *RippleStore) Items() []RippleItem {
	return append([]RippleItem(nil), s.items...)
}

func (s *RippleStore) Latest() mo.Option[RippleItem] {
	return s.latest
}

// Expiry is the shared deadline, zero when the store is empty.
func (s *RippleStore) Expiry() time.Time {
	return s.expiry.Due()
}

// Close cancels the pending expiry without clearing.
func (s *RippleStore) Close() {
	s.expiry.Cancel()
}
