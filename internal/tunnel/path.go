// Package tunnel turns a drawn gesture into a quadratic path and drives the
// player along it.
package tunnel

import (
	"errors"

	"github.com/burrowstrike/core/internal/geom"
)

var (
	ErrInvalidResolution = errors.New("tunnel: resolution must be at least 1")
	ErrPathTooShort      = errors.New("tunnel: path needs at least 2 points")
)

// Path is a sampled curve. Treat it as immutable once built.
type Path []geom.Vec

// BuildPath samples the quadratic Bézier through start, control and end at
// resolution+1 evenly spaced parameters. The endpoints are exact.
func BuildPath(start, control, end geom.Vec, resolution int) (Path, error) {
	if resolution < 1 {
		return nil, ErrInvalidResolution
	}
	p := make(Path, resolution+1)
	for i := 0; i <= resolution; i++ {
		p[i] = quadratic(start, control, end, float64(i)/float64(resolution))
	}
	p[0] = start
	p[resolution] = end
	return p, nil
}

func quadratic(a, b, c geom.Vec, t float64) geom.Vec {
	u := 1 - t
	return a.Mult(u * u).Add(b.Mult(2 * u * t)).Add(c.Mult(t * t))
}

// Deepest returns the point with the lowest y. An empty path yields the zero
// vector and false.
func (p Path) Deepest() (geom.Vec, bool) {
	if len(p) == 0 {
		return geom.Vec{}, false
	}
	d := p[0]
	for _, v := range p[1:] {
		if v.Y < d.Y {
			d = v
		}
	}
	return d, true
}

// Length returns the polyline length.
func (p Path) Length() float64 {
	var n float64
	for i := 1; i < len(p); i++ {
		n += p[i-1].Distance(p[i])
	}
	return n
}

// At samples the polyline by parameter t in [0,1], treating each segment as
// an equal share of t.
func (p Path) At(t float64) geom.Vec {
	switch len(p) {
	case 0:
		return geom.Vec{}
	case 1:
		return p[0]
	}
	t = geom.Clamp01(t)
	f := t * float64(len(p)-1)
	i := int(f)
	if i >= len(p)-1 {
		return p[len(p)-1]
	}
	return p[i].Lerp(p[i+1], f-float64(i))
}

// Reversed returns a copy of p in reverse order.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
