// Package media defines the playback capability the interaction engine drives.
//
// Decoding, rendering and I/O live behind Player; the engine only issues
// fire-and-forget commands and listens to the status and time streams.
package media

import (
	"errors"
	"math"
	"time"

	"github.com/samber/mo"
)

var ErrNotRunning = errors.New("player not running")

// StatusKind mirrors the time-control status of a native player.
type StatusKind int

const (
	StatusPaused StatusKind = iota
	StatusPlaying
	StatusWaiting
)

func (k StatusKind) String() string {
	switch k {
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	case StatusWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// WaitReason explains a StatusWaiting.
type WaitReason int

const (
	WaitNone WaitReason = iota
	WaitToMinimizeStalls
	WaitEvaluatingBufferingRate
	WaitNoItemToPlay
	WaitCoordinatedPlayback
)

// Buffering reports whether the reason is caused by insufficient media data.
func (r WaitReason) Buffering() bool {
	return r == WaitToMinimizeStalls || r == WaitEvaluatingBufferingRate
}

func (r WaitReason) String() string {
	switch r {
	case WaitToMinimizeStalls:
		return "minimize-stalls"
	case WaitEvaluatingBufferingRate:
		return "evaluating-buffering-rate"
	case WaitNoItemToPlay:
		return "no-item"
	case WaitCoordinatedPlayback:
		return "coordinated-playback"
	default:
		return "none"
	}
}

type Status struct {
	Kind   StatusKind
	Reason WaitReason
}

func Playing() Status { return Status{Kind: StatusPlaying} }
func Paused() Status  { return Status{Kind: StatusPaused} }

func Waiting(reason WaitReason) Status {
	return Status{Kind: StatusWaiting, Reason: reason}
}

// Player is the port to a native media player.
//
// Commands may be served asynchronously. Observer callbacks may be invoked
// from any goroutine; callers hop onto their own execution context.
type Player interface {
	Play() error
	Pause() error

	// SetRate changes the playback rate. Negative values play in reverse.
	SetRate(rate float64) error
	Rate() float64

	// Seek is best effort and may snap to the nearest keyframe.
	Seek(seconds float64) error

	// SeekPrecisely seeks with zero tolerance.
	SeekPrecisely(seconds float64) error

	// StepFrames moves by n frames while paused. Negative n steps backwards.
	StepFrames(n int) error

	// Duration of the current item, None while unknown.
	Duration() mo.Option[float64]

	// Position is the last known media time in seconds.
	Position() float64

	// ObserveStatus registers fn for time-control status changes.
	ObserveStatus(fn func(Status)) (cancel func())

	// ObserveTime delivers the media time every interval while playing.
	ObserveTime(interval time.Duration, fn func(seconds float64)) (cancel func())
}

// KnownDuration turns a raw duration into an option. Non-finite and
// non-positive values are unknown.
func KnownDuration(d float64) mo.Option[float64] {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(d)
}

// Finite reports whether v is a usable number.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
