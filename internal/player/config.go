package player

import "time"

// DismissMode selects the shape of the swipe-to-close gesture.
type DismissMode int

const (
	DismissNone DismissMode = iota
	DismissRotation
	DismissVertical
)

func (m DismissMode) String() string {
	switch m {
	case DismissRotation:
		return "rotation"
	case DismissVertical:
		return "vertical"
	default:
		return "none"
	}
}

// ParseDismissMode maps a configuration value onto a mode. Unknown values
// disable the gesture.
func ParseDismissMode(s string) DismissMode {
	switch s {
	case "rotation":
		return DismissRotation
	case "vertical":
		return DismissVertical
	default:
		return DismissNone
	}
}

type DismissConfig struct {
	Mode DismissMode

	// Activation is the vertical translation that starts moving the view.
	Activation float64
	// Velocity is the release speed above which the view is dismissed.
	Velocity float64
	// Deceleration scales the release velocity into the predicted exit.
	Deceleration float64

	RotationMin         float64
	VerticalMin         float64
	MaxDuration         float64
	SnapBackDuration    float64
	CloseNotifyFraction float64
}

type Config struct {
	SkipStep   float64
	SkipWindow time.Duration

	RateLadder       []float64
	EscalateInterval time.Duration

	ScrubStep      float64
	PanSensitivity float64

	RippleAnimation time.Duration
	RippleFadeOut   time.Duration
	RippleLeftEdge  float64
	RippleRightEdge float64

	Dismiss DismissConfig

	ZoomMin float64
	ZoomMax float64

	TickInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		SkipStep:         10,
		SkipWindow:       1200 * time.Millisecond,
		RateLadder:       []float64{1, 2, 4, 8, 16},
		EscalateInterval: 1500 * time.Millisecond,
		ScrubStep:        0.03,
		PanSensitivity:   0.0005,
		RippleAnimation:  600 * time.Millisecond,
		RippleFadeOut:    300 * time.Millisecond,
		RippleLeftEdge:   0.4,
		RippleRightEdge:  0.6,
		Dismiss: DismissConfig{
			Mode:                DismissRotation,
			Activation:          20,
			Velocity:            500,
			Deceleration:        0.998,
			RotationMin:         0.2,
			VerticalMin:         0.15,
			MaxDuration:         2.5,
			SnapBackDuration:    0.3,
			CloseNotifyFraction: 0.5,
		},
		ZoomMin:      1,
		ZoomMax:      4,
		TickInterval: time.Second / 30,
	}
}

// withDefaults fills zero fields so a partially built Config is usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SkipStep <= 0 {
		c.SkipStep = d.SkipStep
	}
	if c.SkipWindow <= 0 {
		c.SkipWindow = d.SkipWindow
	}
	if len(c.RateLadder) == 0 {
		c.RateLadder = d.RateLadder
	}
	if c.ScrubStep < 0 {
		c.ScrubStep = d.ScrubStep
	}
	if c.RippleAnimation <= 0 {
		c.RippleAnimation = d.RippleAnimation
	}
	if c.RippleFadeOut < 0 {
		c.RippleFadeOut = d.RippleFadeOut
	}
	if c.RippleLeftEdge <= 0 || c.RippleRightEdge <= 0 || c.RippleLeftEdge > c.RippleRightEdge {
		c.RippleLeftEdge, c.RippleRightEdge = d.RippleLeftEdge, d.RippleRightEdge
	}
	if c.Dismiss.Activation <= 0 {
		c.Dismiss.Activation = d.Dismiss.Activation
	}
	if c.Dismiss.Velocity <= 0 {
		c.Dismiss.Velocity = d.Dismiss.Velocity
	}
	if c.Dismiss.Deceleration <= 0 {
		c.Dismiss.Deceleration = d.Dismiss.Deceleration
	}
	if c.Dismiss.RotationMin <= 0 {
		c.Dismiss.RotationMin = d.Dismiss.RotationMin
	}
	if c.Dismiss.VerticalMin <= 0 {
		c.Dismiss.VerticalMin = d.Dismiss.VerticalMin
	}
	if c.Dismiss.MaxDuration <= 0 {
		c.Dismiss.MaxDuration = d.Dismiss.MaxDuration
	}
	if c.Dismiss.SnapBackDuration <= 0 {
		c.Dismiss.SnapBackDuration = d.Dismiss.SnapBackDuration
	}
	if c.Dismiss.CloseNotifyFraction <= 0 || c.Dismiss.CloseNotifyFraction > 1 {
		c.Dismiss.CloseNotifyFraction = d.Dismiss.CloseNotifyFraction
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = d.ZoomMin
	}
	if c.ZoomMax < c.ZoomMin {
		c.ZoomMax = c.ZoomMin
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	return c
}
