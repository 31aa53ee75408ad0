// Package splitter bisects solids that overflow the print bed into
// fragments that fit, recursively, along the longest overflowing
// axis. Splitting an already-fitting solid is the identity.
package splitter

import (
	"errors"
	"fmt"

	"github.com/calthrop/bastion/pkg/csg"
	"github.com/calthrop/bastion/pkg/kernel"
)

// ErrNonConvergent reports a bisection that failed to shrink the
// fragment. Each cut halves the offending dimension, so hitting this
// means a kernel invariant was violated.
var ErrNonConvergent = errors.New("splitter: bisection did not converge")

// Bed is the printable volume, mm.
type Bed struct {
	Size   [3]float64
	Margin float64
}

// DefaultBed is a common 256 mm cube printer with a safety margin.
func DefaultBed() Bed {
	return Bed{Size: [3]float64{256, 256, 256}, Margin: 2}
}

// Limit returns the usable extent along one axis.
func (b Bed) Limit(axis int) float64 {
	return b.Size[axis] - b.Margin
}

// maxDepth bounds the recursion. 8 levels per axis turns a 500 mm
// module into sub-2 mm slivers long before the guard can trigger on
// any input the parameter ranges admit.
const maxDepth = 24

// ShouldSplit reports whether any bounding-box extent of s exceeds
// the bed.
func ShouldSplit(s kernel.Solid, bed Bed) bool {
	min, max := s.BoundingBox()
	for axis := 0; axis < 3; axis++ {
		if max[axis]-min[axis] > bed.Limit(axis) {
			return true
		}
	}
	return false
}

// Split cuts s into fragments that each fit the bed. A fitting solid
// is returned as a single-element list, untouched. The input is
// consumed whenever any cut is made.
func Split(c *csg.Compositor, s kernel.Solid, bed Bed) ([]kernel.Solid, error) {
	return split(c, s, bed, 0)
}

func split(c *csg.Compositor, s kernel.Solid, bed Bed, depth int) ([]kernel.Solid, error) {
	if !ShouldSplit(s, bed) {
		return []kernel.Solid{s}, nil
	}
	if depth >= maxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrNonConvergent, depth)
	}

	min, max := s.BoundingBox()
	axis := longestOverflow(min, max, bed)
	mid := (min[axis] + max[axis]) / 2

	k := c.Kernel()
	low, err := halfSpaceCut(c, k.Clone(s), min, max, axis, mid, true)
	if err != nil {
		c.Destroy(s)
		return nil, err
	}
	high, err := halfSpaceCut(c, s, min, max, axis, mid, false)
	if err != nil {
		c.Destroy(low)
		return nil, err
	}

	out := make([]kernel.Solid, 0, 2)
	for _, half := range []kernel.Solid{low, high} {
		half = c.Cleanup(half)
		frags, err := split(c, half, bed, depth+1)
		if err != nil {
			for _, f := range out {
				c.Destroy(f)
			}
			return nil, err
		}
		out = append(out, frags...)
	}
	return out, nil
}

// longestOverflow picks the axis with the largest overflow past the
// bed limit; ties go to the lower axis index for determinism.
func longestOverflow(min, max [3]float64, bed Bed) int {
	best, bestOver := 0, 0.0
	for axis := 0; axis < 3; axis++ {
		over := (max[axis] - min[axis]) - bed.Limit(axis)
		if over > bestOver {
			best, bestOver = axis, over
		}
	}
	return best
}

// halfSpaceCut removes everything on one side of the bisection plane
// by differencing an oversized box covering that side.
func halfSpaceCut(c *csg.Compositor, s kernel.Solid, min, max [3]float64, axis int, mid float64, keepLow bool) (kernel.Solid, error) {
	k := c.Kernel()

	// Oversize on every axis so the cutter faces are comfortably
	// clear of the solid's own faces.
	const pad = 10
	ext := [3]float64{
		max[0] - min[0] + 2*pad,
		max[1] - min[1] + 2*pad,
		max[2] - min[2] + 2*pad,
	}
	span := (max[axis] - min[axis]) / 2
	ext[axis] = span + pad

	box, err := k.Box(ext[0], ext[2], ext[1])
	if err != nil {
		c.Destroy(s)
		return nil, err
	}
	// Box sits centered in X/Y with base at Z=0; recenter on origin.
	box = k.Translate(box, 0, 0, -ext[2]/2)

	// Slide the cutter so it covers the half being removed.
	var center [3]float64
	for a := 0; a < 3; a++ {
		center[a] = (min[a] + max[a]) / 2
	}
	if keepLow {
		center[axis] = mid + ext[axis]/2
	} else {
		center[axis] = mid - ext[axis]/2
	}
	box = k.Translate(box, center[0], center[1], center[2])

	out, err := k.Difference(s, box, kernel.Exact)
	if err != nil {
		out, err = k.Difference(s, box, kernel.Fallback)
	}
	k.Destroy(box)
	if err != nil {
		c.Destroy(s)
		return nil, fmt.Errorf("split cut failed: %w", err)
	}
	k.Destroy(s)
	return out, nil
}
