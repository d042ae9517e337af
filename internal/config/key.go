package config

// Skip bursts
const (
	SkipStep     = "skip.step"
	SkipDebounce = "skip.debounce"
)

// Rate ladder
const (
	RateLadder           = "rate.ladder"
	RateEscalateInterval = "rate.escalate_interval"
)

// Scrubbing
const (
	ScrubStep           = "scrub.step"
	ScrubPanSensitivity = "scrub.pan_sensitivity"
)

// Ripple feedback
const (
	RippleAnimation = "ripple.animation"
	RippleFadeOut   = "ripple.fade_out"
	RippleLeftEdge  = "ripple.left_edge"
	RippleRightEdge = "ripple.right_edge"
)

// Swipe to dismiss
const (
	DismissMode                = "dismiss.mode"
	DismissActivation          = "dismiss.activation"
	DismissVelocity            = "dismiss.velocity"
	DismissDeceleration        = "dismiss.deceleration"
	DismissVerticalMinDuration = "dismiss.vertical_min_duration"
)

const (
	ZoomMin = "zoom.min"
	ZoomMax = "zoom.max"
)

const ClockTickHz = "clock.tick_hz"

// Backend
const (
	PlayerBackend     = "player.backend"
	PlayerMpvPath     = "player.mpv_path"
	PlayerSimDuration = "player.sim_duration"
)

// Logs
const (
	LogsWrite = "logs.write"
	LogsPath  = "logs.path"
	LogsLevel = "logs.level"
	LogsJSON  = "logs.json"
)
