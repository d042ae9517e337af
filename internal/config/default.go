package config

import (
	"strings"
	"time"
)

// Field is one configuration setting with its factory default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env returns the environment variable that overrides the field.
func (f Field) Env() string {
	return strings.ToUpper(EnvPrefix + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Default holds every known field by key.
var Default = make(map[string]Field)

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
	}

	register(SkipStep, 10.0, "Seconds added per tap in a double-tap skip burst")
	register(SkipDebounce, 1200*time.Millisecond, "Idle time after the last tap that ends a skip burst")
	register(RateLadder, []string{"1", "2", "4", "8", "16"}, "Fast-forward and rewind speeds cycled by a long press")
	register(RateEscalateInterval, 1500*time.Millisecond, "Time between rate steps while a long press is held. 0 disables")
	register(ScrubStep, 0.03, "Seconds the scrub position snaps to on release")
	register(ScrubPanSensitivity, 0.0005, "Scrub ratio per unit of two-finger pan")
	register(RippleAnimation, 600*time.Millisecond, "Ripple ring animation")
	register(RippleFadeOut, 300*time.Millisecond, "Ripple fade out")
	register(RippleLeftEdge, 0.4, "Fraction of the width below which a tap is in the left region")
	register(RippleRightEdge, 0.6, "Fraction of the width above which a tap is in the right region")
	register(DismissMode, "rotation", "Swipe to dismiss shape.\nAvailable options are: rotation, vertical, none")
	register(DismissActivation, 20.0, "Vertical translation that starts the dismiss drag")
	register(DismissVelocity, 500.0, "Release velocity above which the view is dismissed")
	register(DismissDeceleration, 0.998, "Scale applied to the release velocity to predict the exit")
	register(DismissVerticalMinDuration, 0.15, "Shortest exit animation of the vertical dismiss, in seconds")
	register(ZoomMin, 1.0, "Smallest pinch scale")
	register(ZoomMax, 4.0, "Largest pinch scale")
	register(ClockTickHz, 30, "Playback clock updates per second")
	register(PlayerBackend, "sim", "Media backend.\nAvailable options are: sim, mpv")
	register(PlayerMpvPath, "mpv", "mpv binary used by the mpv backend")
	register(PlayerSimDuration, 10*time.Minute, "Length of the simulated item")
	register(LogsWrite, false, "Write logs")
	register(LogsPath, "pixltouch.log", "Log file")
	register(LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(LogsJSON, false, "Use json format for logs")
}
