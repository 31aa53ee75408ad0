package profile

import (
	"fmt"
	"math"
)

// Lancet arch construction. The silhouette is two circular arcs, each
// centered at the opposite base corner of the arch zone with radius
// equal to the full arch width. That construction (rather than a sine
// blend) is what produces the narrow pointed lancet of high gothic
// window openings.
//
// With base corners at (±w/2, rectH) and radius w, the arcs meet at
// x = 0, z = rectH + w·√3/2. When that natural apex would overshoot
// the requested height the arch zone is scaled down vertically so the
// apex lands exactly on it.

// rectFraction is the share of total height taken by the straight
// rectangular base below the arcs.
const rectFraction = 0.5

// minArcSegments is the minimum tessellation per half-arc.
const minArcSegments = 4

// LancetArch returns a closed profile for a pointed lancet arch with
// its base edge on Z=0, centered on X=0 and peaking at Z=height.
// segments is the total arc tessellation budget; each half-arc gets
// at least minArcSegments regardless.
func LancetArch(width, height float64, segments int) (Profile, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("lancet arch %gx%g: dimensions must be positive", width, height)
	}
	if height <= width*0.5 {
		return nil, fmt.Errorf("lancet arch %gx%g: height too small for pointed arch", width, height)
	}
	perHalf := segments / 2
	if perHalf < minArcSegments {
		perHalf = minArcSegments
	}

	hw := width / 2
	rectH := height * rectFraction

	// Natural apex of the two-arc construction, then the vertical
	// scale that clamps it to the requested height.
	naturalRise := width * math.Sqrt(3) / 2
	rise := height - rectH
	scale := rise / naturalRise

	// Each arc sweeps from the far base corner (180° from its center)
	// to the apex at 120°.
	const (
		startAngle = math.Pi
		endAngle   = 2 * math.Pi / 3
	)

	pts := make(Profile, 0, 2*perHalf+5)
	pts = append(pts, Point{-hw, 0}, Point{-hw, rectH})

	// Left arc: centered at the right base corner (+hw, rectH).
	for i := 1; i < perHalf; i++ {
		t := float64(i) / float64(perHalf)
		a := startAngle + (endAngle-startAngle)*t
		x := hw + width*math.Cos(a)
		z := rectH + width*math.Sin(a)*scale
		pts = append(pts, Point{x, z})
	}

	pts = append(pts, Point{0, height}) // apex

	// Right arc: mirror of the left, descending.
	for i := perHalf - 1; i >= 1; i-- {
		t := float64(i) / float64(perHalf)
		a := startAngle + (endAngle-startAngle)*t
		x := -(hw + width*math.Cos(a))
		z := rectH + width*math.Sin(a)*scale
		pts = append(pts, Point{x, z})
	}

	pts = append(pts, Point{hw, rectH}, Point{hw, 0})
	return pts, nil
}

// ArchFrame returns the outer and inner profiles of a raised window
// surround: the inner profile matches the opening, the outer one adds
// thickness on the sides and above the apex. Extruding both and
// subtracting the inner solid yields the frame ring.
func ArchFrame(width, height, thickness float64, segments int) (outer, inner Profile, err error) {
	if thickness <= 0 {
		return nil, nil, fmt.Errorf("arch frame: thickness %g must be positive", thickness)
	}
	inner, err = LancetArch(width, height, segments)
	if err != nil {
		return nil, nil, err
	}
	outer, err = LancetArch(width+2*thickness, height+thickness, segments)
	if err != nil {
		return nil, nil, err
	}
	return outer, inner, nil
}
