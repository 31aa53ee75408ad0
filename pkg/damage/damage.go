// Package damage carves battle wear into finished modules. All
// cutters are built at the origin, rotated, then translated into
// place; every random draw comes from the caller's seeded stream so
// a seed fully determines the scars.
package damage

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/calthrop/bastion/pkg/csg"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/params"
)

// Apply carves the given damage state at the given intensity (0–1).
// Individual failed cuts are recorded as compositor warnings and
// skipped; only cutter construction failures are fatal.
func Apply(c *csg.Compositor, s kernel.Solid, state params.DamageState, intensity float64, rng *rand.Rand) (kernel.Solid, error) {
	if intensity <= 0 {
		return s, nil
	}
	if intensity > 1 {
		intensity = 1
	}
	switch state {
	case params.Damaged:
		return applyDamaged(c, s, intensity, rng)
	case params.Ruined:
		return applyRuined(c, s, intensity, rng)
	case params.Half:
		return applyHalf(c, s, intensity, rng)
	default:
		return s, nil
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// throughHole returns a cylinder lying along Y, long enough to pierce
// a solid of the given thickness, centered on Y=0.
func throughHole(c *csg.Compositor, r, thickness float64) (kernel.Solid, error) {
	k := c.Kernel()
	depth := thickness + 4
	hole, err := k.Cylinder(r, depth, 12)
	if err != nil {
		return nil, err
	}
	hole = k.Rotate(hole, 90, 0, 0)
	// After the rotation the axis spans y ∈ [-depth, 0]; recenter.
	return k.Translate(hole, 0, depth/2, 0), nil
}

// applyDamaged is light wear: bullet pocks, edge chips, then cracks
// and parapet notches as intensity climbs.
func applyDamaged(c *csg.Compositor, s kernel.Solid, intensity float64, rng *rand.Rand) (kernel.Solid, error) {
	min, max := s.BoundingBox()
	sx := max[0] - min[0]
	sy := max[1] - min[1]
	sz := max[2] - min[2]
	k := c.Kernel()

	holes := int(math.Max(1, math.Round(1+intensity*5)))
	for i := 0; i < holes; i++ {
		r := uniform(rng, 1, 2.5)
		x := uniform(rng, min[0]+r+1, max[0]-r-1)
		z := uniform(rng, min[2]+5, max[2]-5)
		hole, err := throughHole(c, r, sy)
		if err != nil {
			return s, err
		}
		hole = k.Translate(hole, x, (min[1]+max[1])/2, z)
		s = c.Difference(s, hole, fmt.Sprintf("pock_%d", i))
	}

	chips := int(math.Max(1, math.Round(1+intensity*4)))
	for i := 0; i < chips; i++ {
		side := uniform(rng, 2, 5)
		chip, err := k.Box(side, side, side)
		if err != nil {
			return s, err
		}
		chip = k.Rotate(chip, uniform(rng, 0, 45), uniform(rng, 0, 45), uniform(rng, 0, 45))
		// Chips bite the top and end edges.
		var x, z float64
		if rng.Float64() < 0.5 {
			x = uniform(rng, min[0], max[0])
			z = max[2]
		} else {
			if rng.Float64() < 0.5 {
				x = min[0]
			} else {
				x = max[0]
			}
			z = uniform(rng, min[2]+sz*0.3, max[2])
		}
		chip = k.Translate(chip, x, (min[1]+max[1])/2, z-side/2)
		s = c.Difference(s, chip, fmt.Sprintf("chip_%d", i))
	}

	if intensity > 0.25 {
		cracks := int(math.Max(1, math.Round((intensity-0.25)*4)))
		for i := 0; i < cracks; i++ {
			cw := uniform(rng, 0.6, 1.2)
			ch := uniform(rng, sz*0.3, sz*0.6)
			crack, err := k.Box(cw, ch, sy+4)
			if err != nil {
				return s, err
			}
			crack = k.Rotate(crack, 0, 0, uniform(rng, -12, 12))
			x := uniform(rng, min[0]+sx*0.15, max[0]-sx*0.15)
			crack = k.Translate(crack, x, (min[1]+max[1])/2, max[2]-ch)
			s = c.Difference(s, crack, fmt.Sprintf("crack_%d", i))
		}
	}

	if intensity > 0.55 {
		notches := 1 + int(math.Round((intensity-0.55)*4))
		for i := 0; i < notches; i++ {
			nw := uniform(rng, sx*0.05, sx*0.12)
			nh := uniform(rng, sz*0.08, sz*0.18)
			notch, err := k.Box(nw, nh+2, sy+4)
			if err != nil {
				return s, err
			}
			x := uniform(rng, min[0]+nw, max[0]-nw)
			notch = k.Translate(notch, x, (min[1]+max[1])/2, max[2]-nh)
			s = c.Difference(s, notch, fmt.Sprintf("notch_%d", i))
		}
	}

	return s, nil
}

// applyRuined is structural loss: blown-through breaches, collapsed
// top runs, and at high intensity a missing end bay.
func applyRuined(c *csg.Compositor, s kernel.Solid, intensity float64, rng *rand.Rand) (kernel.Solid, error) {
	min, max := s.BoundingBox()
	sx := max[0] - min[0]
	sy := max[1] - min[1]
	sz := max[2] - min[2]
	k := c.Kernel()

	breaches := int(math.Max(1, math.Round(1+intensity*3)))
	for i := 0; i < breaches; i++ {
		r := uniform(rng, 5, 8+6*intensity)
		x := uniform(rng, min[0]+r, max[0]-r)
		z := uniform(rng, min[2]+sz*0.25, max[2]-r*0.5)
		hole, err := throughHole(c, r, sy)
		if err != nil {
			return s, err
		}
		hole = k.Translate(hole, x, (min[1]+max[1])/2, z)
		s = c.Difference(s, hole, fmt.Sprintf("breach_%d", i))
	}

	if intensity > 0.2 {
		collapses := 1 + int(math.Round(intensity*2))
		for i := 0; i < collapses; i++ {
			cw := uniform(rng, sx*0.12, sx*0.3)
			ch := uniform(rng, sz*0.15, sz*0.45)
			fall, err := k.Box(cw, ch+2, sy+4)
			if err != nil {
				return s, err
			}
			fall = k.Rotate(fall, 0, 0, uniform(rng, -18, 18))
			x := uniform(rng, min[0]+cw/2, max[0]-cw/2)
			fall = k.Translate(fall, x, (min[1]+max[1])/2, max[2]-ch)
			s = c.Difference(s, fall, fmt.Sprintf("collapse_%d", i))
		}
	}

	if intensity > 0.55 {
		frac := 0.18 + (intensity-0.55)*0.34
		cutW := sx * frac
		slice, err := k.Box(cutW+2, sz+4, sy+4)
		if err != nil {
			return s, err
		}
		slice = k.Rotate(slice, 0, 0, uniform(rng, -10, 10))
		var x float64
		if rng.Float64() < 0.5 {
			x = min[0] + cutW/2 - 1
		} else {
			x = max[0] - cutW/2 + 1
		}
		slice = k.Translate(slice, x, (min[1]+max[1])/2, min[2]-2)
		s = c.Difference(s, slice, "missing_bay")
	}

	return s, nil
}

// applyHalf shears the module with a single angled break so the
// remainder mates against a matching piece. The break plane tilts
// through the thickness; the tilt in elevation is capped so the
// remaining footprint tracks the cut fraction.
func applyHalf(c *csg.Compositor, s kernel.Solid, intensity float64, rng *rand.Rand) (kernel.Solid, error) {
	min, max := s.BoundingBox()
	sx := max[0] - min[0]
	sy := max[1] - min[1]
	sz := max[2] - min[2]
	k := c.Kernel()
	midY := (min[1] + max[1]) / 2
	midZ := (min[2] + max[2]) / 2

	cutFraction := 0.30 + 0.30*intensity
	fromLeft := rng.Float64() < 0.5

	var breakX float64
	if fromLeft {
		breakX = min[0] + sx*cutFraction
	} else {
		breakX = max[0] - sx*cutFraction
	}

	// Both tilts are capped so the break face never wanders far
	// from breakX and the remaining footprint tracks the fraction.
	twistCap := math.Min(40, math.Atan2(sx*0.06, sy)*180/math.Pi)
	twist := uniform(rng, math.Min(15, twistCap), twistCap)
	leanCap := math.Atan2(sx*0.03, sz) * 180 / math.Pi
	lean := uniform(rng, -leanCap, leanCap)

	// The slab's Y extent must keep covering the solid out to its far
	// end even at the steepest twist, where the far corner swings by
	// sx·sin(twist) in Y.
	big := sx + 60
	yExt := 2*(sx+sy) + 40
	cutter, err := k.Box(big, sz+40, yExt)
	if err != nil {
		return s, err
	}
	// Pin the break face on the rotation axis: the slab spans
	// x ∈ [-big, 0] (or [0, big]) before tilting, so the face plane
	// passes through the origin and stays within half a thickness of
	// the break line after the rotation.
	xOff := -big / 2
	if !fromLeft {
		xOff = big / 2
	}
	cutter = k.Translate(cutter, xOff, 0, -(sz+40)/2)
	cutter = k.Rotate(cutter, 0, lean, twist*randomSign(rng))
	cutter = k.Translate(cutter, breakX, midY, midZ)
	s = c.Difference(s, cutter, "half_break")

	// Jagged spall along the break edge.
	jags := 3 + int(math.Round(4*intensity))
	for i := 0; i < jags; i++ {
		jw := uniform(rng, sx*0.03, sx*0.08)
		jh := uniform(rng, sz*0.08, sz*0.3)
		jag, err := k.Box(jw, jh, sy+4)
		if err != nil {
			return s, err
		}
		jag = k.Rotate(jag, 0, 0, uniform(rng, -30, 30))
		z := uniform(rng, min[2]+sz*0.1, max[2]-jh)
		jag = k.Translate(jag, breakX+uniform(rng, -jw, jw), midY, z)
		s = c.Difference(s, jag, fmt.Sprintf("jag_%d", i))
	}

	return s, nil
}

func randomSign(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return -1
	}
	return 1
}
