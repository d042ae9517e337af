package player

import (
	"time"

	"github.com/samber/mo"
)

// PlaybackState is the engine's view of the media clock. A zero Duration
// means unknown.
type PlaybackState struct {
	CurrentTime float64
	Duration    float64
	IsPlaying   bool
	IsBuffering bool
}

// Ratio is CurrentTime/Duration, or 0 while the duration is unknown.
func (ps PlaybackState) Ratio() float64 {
	if ps.Duration <= 0 {
		return 0
	}
	return ps.CurrentTime / ps.Duration
}

// clampTime forces t into [0, Duration] once the duration is known.
func (ps PlaybackState) clampTime(t float64) float64 {
	if !finite(t) || t < 0 {
		return 0
	}
	if ps.Duration > 0 && t > ps.Duration {
		return ps.Duration
	}
	return t
}

// AtEnd reports whether playback has reached a known end.
func (ps PlaybackState) AtEnd() bool {
	return ps.Duration > 0 && ps.CurrentTime >= ps.Duration
}

// ScrubSession exists between BeginScrub and EndScrub.
type ScrubSession struct {
	Active                bool
	WasPlayingBeforeScrub bool
	PendingRatio          float64

	startTime     float64
	panStartRatio float64
}

// DismissState is the live transform of the view during a dismiss drag.
type DismissState struct {
	Mode     DismissMode
	Tracking bool
	Active   bool
	Offset   Vector
	Angle    float64
	Anchor   Point
	Progress float64

	// Outcome is set on release until the next drag begins.
	Outcome mo.Option[DismissOutcome]
}

// State is the read-only snapshot handed to observers.
type State struct {
	CurrentTime float64
	Duration    mo.Option[float64]
	SliderRatio float64
	Rate        float64

	IsPlaying   bool
	IsBuffering bool
	IsTracking  bool
	IsLongPress bool

	ZoomScale float64
	Dismiss   DismissState

	Ripples      []RippleItem
	LatestRipple mo.Option[RippleItem]
	RippleExpiry time.Time
}
