package meshkern

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/profile"
)

// box builds a closed box spanning [-w/2,w/2] x [-d/2,d/2] x [0,h].
// Width runs along X, height along Z and depth along Y, matching the
// wall convention used throughout the assemblers.
func box(w, h, d float64) (*Solid, error) {
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: box %gx%gx%g", kernel.ErrInvalidGeometry, w, h, d)
	}
	hw, hd := w/2, d/2
	v := []Vec3{
		{-hw, -hd, 0}, {hw, -hd, 0}, {hw, hd, 0}, {-hw, hd, 0},
		{-hw, -hd, h}, {hw, -hd, h}, {hw, hd, h}, {-hw, hd, h},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front (-Y)
		{2, 3, 7, 6}, // back (+Y)
		{3, 0, 4, 7}, // left
		{1, 2, 6, 5}, // right
	}
	polys := make([]polygon, 0, len(quads))
	for _, q := range quads {
		polys = append(polys, newPolygon([]Vec3{v[q[0]], v[q[1]], v[q[2]], v[q[3]]}))
	}
	return &Solid{polys: polys}, nil
}

// cylinder builds a capped cylinder standing on Z=0, centered on the
// Z axis. Caps are triangle fans so every face stays convex.
func cylinder(radius, height float64, segments int) (*Solid, error) {
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cylinder r=%g h=%g", kernel.ErrInvalidGeometry, radius, height)
	}
	if segments < 3 {
		return nil, fmt.Errorf("%w: cylinder needs at least 3 segments, got %d", kernel.ErrInvalidGeometry, segments)
	}

	bottom := make([]Vec3, segments)
	top := make([]Vec3, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x := radius * math.Cos(a)
		y := radius * math.Sin(a)
		bottom[i] = Vec3{x, y, 0}
		top[i] = Vec3{x, y, height}
	}

	var polys []polygon
	c0 := Vec3{0, 0, 0}
	c1 := Vec3{0, 0, height}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		// Side quad, outward winding.
		polys = append(polys, newPolygon([]Vec3{bottom[i], bottom[j], top[j], top[i]}))
		// Bottom cap faces down, top cap faces up.
		polys = append(polys, newPolygon([]Vec3{c0, bottom[j], bottom[i]}))
		polys = append(polys, newPolygon([]Vec3{c1, top[i], top[j]}))
	}
	return &Solid{polys: polys}, nil
}

// extrude sweeps a closed XZ profile along Y over [-depth/2, depth/2].
// Caps are ear-clip triangulated so concave profiles (lancet arches)
// still produce convex BSP faces.
func extrude(p profile.Profile, depth float64) (*Solid, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: extrude depth %g", kernel.ErrInvalidGeometry, depth)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	// Normalize to counter-clockwise in XZ so side quads wind outward.
	if !p.CounterClockwise() {
		p = p.Reversed()
	}

	hd := depth / 2
	n := len(p)
	frontV := make([]Vec3, n) // -Y face
	backV := make([]Vec3, n)  // +Y face
	for i, pt := range p {
		frontV[i] = Vec3{pt.X, -hd, pt.Z}
		backV[i] = Vec3{pt.X, hd, pt.Z}
	}

	tris, err := earClip(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}

	var polys []polygon
	for _, t := range tris {
		// Front cap normal faces -Y: reverse the CCW triangle.
		polys = append(polys, newPolygon([]Vec3{frontV[t[2]], frontV[t[1]], frontV[t[0]]}))
		// Back cap faces +Y.
		polys = append(polys, newPolygon([]Vec3{backV[t[0]], backV[t[1]], backV[t[2]]}))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		polys = append(polys, newPolygon([]Vec3{frontV[i], frontV[j], backV[j], backV[i]}))
	}
	return &Solid{polys: polys}, nil
}

// earClip triangulates a simple CCW polygon. Returns index triples
// into the input.
func earClip(p profile.Profile) ([][3]int, error) {
	n := len(p)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var tris [][3]int
	// Each iteration removes one ear; a simple polygon always has one.
	for len(idx) > 3 {
		clipped := false
		m := len(idx)
		for i := 0; i < m; i++ {
			i0 := idx[(i+m-1)%m]
			i1 := idx[i]
			i2 := idx[(i+1)%m]
			if !isEar(p, idx, i0, i1, i2) {
				continue
			}
			tris = append(tris, [3]int{i0, i1, i2})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("ear clipping stalled with %d vertices left", len(idx))
		}
	}
	tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	return tris, nil
}

func isEar(p profile.Profile, idx []int, i0, i1, i2 int) bool {
	a, b, c := p[i0], p[i1], p[i2]
	// Convex corner in a CCW polygon.
	if cross2(a, b, c) <= 1e-12 {
		return false
	}
	// No other active vertex inside the candidate triangle.
	for _, k := range idx {
		if k == i0 || k == i1 || k == i2 {
			continue
		}
		if pointInTriangle(p[k], a, b, c) {
			return false
		}
	}
	return true
}

func cross2(o, a, b profile.Point) float64 {
	return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
}

func pointInTriangle(pt, a, b, c profile.Point) bool {
	d1 := cross2(a, b, pt)
	d2 := cross2(b, c, pt)
	d3 := cross2(c, a, pt)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
