// Package profile produces closed 2D polygon profiles for stylized
// architectural curves. Profiles live in the XZ plane (X across the
// wall, Z up) and exist only as extrusion input; they are not
// persisted past the primitive that consumes them.
package profile

import (
	"fmt"
	"math"
)

// Point is a 2D profile point in the XZ plane, in mm.
type Point struct {
	X float64
	Z float64
}

// Profile is an ordered closed polygon. The closing edge from the
// last point back to the first is implicit. A valid profile has at
// least 3 points, finite coordinates, non-zero area and no
// self-intersections.
type Profile []Point

// Validate checks the profile invariants. The returned error names
// the first violated one.
func (p Profile) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("profile has %d points, need at least 3", len(p))
	}
	for i, pt := range p {
		if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) ||
			math.IsNaN(pt.Z) || math.IsInf(pt.Z, 0) {
			return fmt.Errorf("profile point %d is not finite", i)
		}
	}
	// A bowtie has zero signed area too; report the crossing, not
	// the symptom.
	if i, j, ok := p.selfIntersects(); ok {
		return fmt.Errorf("profile edges %d and %d intersect", i, j)
	}
	if math.Abs(p.Area()) < 1e-9 {
		return fmt.Errorf("profile has zero area")
	}
	return nil
}

// Area returns the signed area (positive for counter-clockwise
// winding in the XZ plane).
func (p Profile) Area() float64 {
	var sum float64
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Z - p[j].X*p[i].Z
	}
	return sum / 2
}

// CounterClockwise reports whether the profile winds counter-clockwise.
func (p Profile) CounterClockwise() bool {
	return p.Area() > 0
}

// Reversed returns a copy with the opposite winding.
func (p Profile) Reversed() Profile {
	out := make(Profile, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Bounds returns the min and max corners of the profile.
func (p Profile) Bounds() (min, max Point) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, pt := range p {
		min.X = math.Min(min.X, pt.X)
		min.Z = math.Min(min.Z, pt.Z)
		max.X = math.Max(max.X, pt.X)
		max.Z = math.Max(max.Z, pt.Z)
	}
	return min, max
}

// selfIntersects scans all non-adjacent edge pairs for a proper
// crossing. Profiles are small (tens of points) so the quadratic scan
// is fine.
func (p Profile) selfIntersects() (int, int, bool) {
	n := len(p)
	for i := 0; i < n; i++ {
		a1 := p[i]
		a2 := p[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// Skip the pair sharing the closing vertex.
			if i == 0 && j == n-1 {
				continue
			}
			b1 := p[j]
			b2 := p[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func segmentsCross(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
}
