package player

import "math"

// Point is a location in view coordinates.
type Point struct {
	X, Y float64
}

// Vector is a translation or a velocity in view coordinates.
type Vector struct {
	X, Y float64
}

type Size struct {
	W, H float64
}

func (p Point) Add(v Vector) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }
func (p Point) Sub(o Point) Vector  { return Vector{X: p.X - o.X, Y: p.Y - o.Y} }
func (p Point) Valid() bool         { return finite(p.X) && finite(p.Y) }

func (v Vector) Add(o Vector) Vector    { return Vector{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector) Scale(f float64) Vector { return Vector{X: v.X * f, Y: v.Y * f} }
func (v Vector) Valid() bool            { return finite(v.X) && finite(v.Y) }

func (s Size) Center() Point { return Point{X: s.W / 2, Y: s.H / 2} }

// Valid reports whether s can be used as a divisor.
func (s Size) Valid() bool {
	return finite(s.W) && finite(s.H) && s.W > 0 && s.H > 0
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Phase is the lifecycle stage of a continuous gesture.
type Phase int

const (
	PhaseBegan Phase = iota
	PhaseChanged
	PhaseEnded
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
