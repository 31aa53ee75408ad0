// Package meshkern implements the kernel.Kernel interface on explicit
// polygon meshes. Booleans are solved with a BSP partitioning scheme;
// every accepted result is welded, stripped of degenerate faces and
// checked for the 2-manifold invariant. This is the default backend:
// unlike the SDF backend its output is exactly the boolean of its
// inputs, with crisp edges, which is what printable terrain needs.
package meshkern

import "math"

// polygon is a planar convex face with at least 3 vertices, wound
// counter-clockwise when seen from outside the solid.
type polygon struct {
	verts []Vec3
	plane plane
}

func newPolygon(verts []Vec3) polygon {
	return polygon{verts: verts, plane: newellPlane(verts)}
}

func (p polygon) clone() polygon {
	verts := make([]Vec3, len(p.verts))
	copy(verts, p.verts)
	return polygon{verts: verts, plane: p.plane}
}

func (p *polygon) flip() {
	for i, j := 0, len(p.verts)-1; i < j; i, j = i+1, j-1 {
		p.verts[i], p.verts[j] = p.verts[j], p.verts[i]
	}
	p.plane = p.plane.flipped()
}

// area returns the polygon area via the Newell normal.
func (p polygon) area() float64 {
	var n Vec3
	for i := 0; i < len(p.verts); i++ {
		a := p.verts[i]
		b := p.verts[(i+1)%len(p.verts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Length() / 2
}

// Solid is a closed polyhedron held as a polygon soup. The soup is
// the working representation between boolean steps; Cleanup welds it
// into an indexed mesh to enforce the manifold invariant and then
// rebuilds the soup.
type Solid struct {
	polys []polygon
}

// BoundingBox returns the axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range s.polys {
		for _, v := range p.verts {
			min[0] = math.Min(min[0], v.X)
			min[1] = math.Min(min[1], v.Y)
			min[2] = math.Min(min[2], v.Z)
			max[0] = math.Max(max[0], v.X)
			max[1] = math.Max(max[1], v.Y)
			max[2] = math.Max(max[2], v.Z)
		}
	}
	if len(s.polys) == 0 {
		return [3]float64{}, [3]float64{}
	}
	return min, max
}

// FaceCount returns the number of faces.
func (s *Solid) FaceCount() int { return len(s.polys) }

// IsEmpty reports whether the solid has no geometry.
func (s *Solid) IsEmpty() bool { return len(s.polys) == 0 }

func (s *Solid) clonePolys() []polygon {
	out := make([]polygon, len(s.polys))
	for i, p := range s.polys {
		out[i] = p.clone()
	}
	return out
}

// translated returns a copy moved by d.
func (s *Solid) translated(d Vec3) *Solid {
	out := make([]polygon, len(s.polys))
	for i, p := range s.polys {
		verts := make([]Vec3, len(p.verts))
		for j, v := range p.verts {
			verts[j] = v.Add(d)
		}
		out[i] = newPolygon(verts)
	}
	return &Solid{polys: out}
}

// rotated returns a copy rotated about the origin.
func (s *Solid) rotated(m matrix3) *Solid {
	out := make([]polygon, len(s.polys))
	for i, p := range s.polys {
		verts := make([]Vec3, len(p.verts))
		for j, v := range p.verts {
			verts[j] = m.apply(v)
		}
		out[i] = newPolygon(verts)
	}
	return &Solid{polys: out}
}

// quantized returns a copy with every coordinate snapped to the given
// grid. Used by the fallback boolean mode to collapse near-coplanar
// jitter before partitioning.
func (s *Solid) quantized(grid float64) *Solid {
	snap := func(x float64) float64 {
		return math.Round(x/grid) * grid
	}
	out := make([]polygon, 0, len(s.polys))
	for _, p := range s.polys {
		verts := make([]Vec3, len(p.verts))
		for j, v := range p.verts {
			verts[j] = Vec3{snap(v.X), snap(v.Y), snap(v.Z)}
		}
		q := polygon{verts: verts}
		if degeneratePoints(verts) {
			continue
		}
		q = newPolygon(verts)
		out = append(out, q)
	}
	return &Solid{polys: out}
}

// degeneratePoints reports whether the points no longer span a plane
// with measurable area.
func degeneratePoints(verts []Vec3) bool {
	if len(verts) < 3 {
		return true
	}
	var n Vec3
	for i := 0; i < len(verts); i++ {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Length() < 1e-12
}
