package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vec is a 2D world position. x grows right, y grows up.
type Vec = cp.Vector

// Up is the unit vector pointing away from the ground.
var Up = Vec{X: 0, Y: 1}

// V builds a Vec.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// MoveTowards steps from toward to by at most maxStep without overshooting.
func MoveTowards(from, to Vec, maxStep float64) Vec {
	if maxStep <= 0 {
		return from
	}
	return from.LerpConst(to, maxStep)
}

// Lerp interpolates a→b by t without clamping.
func Lerp(a, b, t float64) float64 { return cp.Lerp(a, b, t) }

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 { return cp.Clamp01(v) }

// Clamp clamps v into [lo,hi]. lo wins when the bounds cross.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return math.Max(lo, hi)
	}
	return v
}

// InverseLerp returns where v sits between a and b, clamped to [0,1].
// A degenerate range (a == b) yields 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return cp.Clamp01((v - a) / (b - a))
}

// EaseOutSine maps t∈[0,1] onto a decelerating curve.
func EaseOutSine(t float64) float64 {
	return math.Sin(Clamp01(t) * math.Pi / 2)
}

// HeadingDeg returns the facing angle of dir in degrees, 0 = +x.
func HeadingDeg(dir Vec) float64 {
	return dir.ToAngle() * 180 / math.Pi
}

// Bounds is an axis-aligned rectangle in world units.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside b (edges included).
func (b Bounds) Contains(p Vec) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}
