package player

import (
	"math"

	"github.com/samber/lo"
)

// DismissOutcome tells the view how to finish a released drag.
type DismissOutcome struct {
	Dismissed bool

	// Duration of the exit or snap-back animation, in seconds.
	Duration float64
	// CloseAfter is when the close notification fires, in seconds from
	// release. Zero for a snap-back.
	CloseAfter float64

	TargetOffset Vector
	TargetAngle  float64
	TargetAlpha  float64
}

// DismissGesture tracks one pan from began to ended or cancelled.
type DismissGesture struct {
	cfg DismissConfig

	tracking      bool
	active        bool
	viewport      Size
	initialCenter Point
	initialOffset Vector
	anchor        Point

	offset Vector
	angle  float64
}

func NewDismissGesture(cfg DismissConfig) *DismissGesture {
	return &DismissGesture{cfg: cfg}
}

func (d *DismissGesture) Mode() DismissMode { return d.cfg.Mode }

// Admit decides whether a pan may start dismissing. It is refused while
// zoomed in or during a long press, and suppressed when the translation,
// measured in the zoom container's frame, is horizontal-dominant.
func (d *DismissGesture) Admit(translation Vector, zoomed, longPress bool) bool {
	if d.cfg.Mode == DismissNone || zoomed || longPress {
		return false
	}
	return !(math.Abs(translation.X) > math.Abs(translation.Y))
}

// Begin records the pivot for a new drag, replacing any previous one.
func (d *DismissGesture) Begin(location Point, viewport Size) {
	center := viewport.Center()
	d.tracking = true
	d.active = false
	d.viewport = viewport
	d.initialCenter = center
	d.initialOffset = location.Sub(center)
	d.anchor = location
	d.offset = Vector{}
	d.angle = 0
}

// Change follows the finger once the drag has moved far enough vertically.
func (d *DismissGesture) Change(translation Vector) {
	if !d.tracking || !translation.Valid() {
		return
	}
	if !d.active && math.Abs(translation.Y) < d.cfg.Activation {
		return
	}
	d.active = true

	switch d.cfg.Mode {
	case DismissRotation:
		d.offset = translation
		d.angle = math.Min(translation.Y/d.height(), 1) * (math.Pi / 4) * sign(d.initialOffset.X)
	case DismissVertical:
		d.offset = Vector{Y: translation.Y}
		d.angle = 0
	}
}

// End resolves the drag from the release velocity.
func (d *DismissGesture) End(velocity Vector) DismissOutcome {
	if !d.tracking {
		return d.snapBack()
	}
	d.tracking = false
	d.active = false

	if !velocity.Valid() {
		return d.snapBack()
	}
	vx, vy := math.Abs(velocity.X), math.Abs(velocity.Y)
	if !(vx < vy && vy > d.cfg.Velocity) {
		return d.snapBack()
	}

	h := d.height()
	speed := vy / h

	predicted := d.offset.Add(velocity.Scale(d.cfg.Deceleration))
	out := DismissOutcome{Dismissed: true, TargetAlpha: 0}

	switch d.cfg.Mode {
	case DismissRotation:
		out.Duration = lo.Clamp(2.8/speed, d.cfg.RotationMin, d.cfg.MaxDuration)
		out.TargetOffset = predicted
		out.TargetAngle = math.Min(predicted.Y/h, 1) * (math.Pi / 3) * sign(d.initialOffset.X)
	case DismissVertical:
		out.Duration = lo.Clamp(2.0/speed, d.cfg.VerticalMin, d.cfg.MaxDuration)
		out.TargetOffset = Vector{Y: predicted.Y}
	default:
		return d.snapBack()
	}
	out.CloseAfter = out.Duration * d.cfg.CloseNotifyFraction

	d.offset = Vector{}
	d.angle = 0
	return out
}

// Cancel abandons the drag and returns the view to its origin.
func (d *DismissGesture) Cancel() DismissOutcome {
	d.tracking = false
	d.active = false
	return d.snapBack()
}

func (d *DismissGesture) snapBack() DismissOutcome {
	d.offset = Vector{}
	d.angle = 0
	return DismissOutcome{
		Duration:    d.cfg.SnapBackDuration,
		TargetAlpha: 1,
	}
}

func (d *DismissGesture) height() float64 {
	if d.viewport.Valid() {
		return d.viewport.H
	}
	return 1
}

// Progress is how far the view has been dragged relative to its height.
func (d *DismissGesture) Progress() float64 {
	return math.Min(math.Abs(d.offset.Y)/d.height(), 1)
}

func (d *DismissGesture) Tracking() bool       { return d.tracking }
func (d *DismissGesture) Active() bool         { return d.active }
func (d *DismissGesture) Offset() Vector       { return d.offset }
func (d *DismissGesture) Angle() float64       { return d.angle }
func (d *DismissGesture) Anchor() Point        { return d.anchor }
func (d *DismissGesture) InitialCenter() Point { return d.initialCenter }
