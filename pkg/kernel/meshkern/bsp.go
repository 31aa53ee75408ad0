package meshkern

// BSP boolean solver. Each solid is compiled into a binary space
// partitioning tree keyed on face planes; union, difference and
// intersection are realized by mutually clipping the two trees and
// merging the surviving faces. Faces are kept convex so a plane split
// always yields at most one fragment per side.

// plane is n·p = w with unit normal n.
type plane struct {
	n Vec3
	w float64
}

// newellPlane derives the face plane from all vertices. More stable
// than a three-point plane when the first corner is nearly collinear.
func newellPlane(verts []Vec3) plane {
	var n, centroid Vec3
	for i := 0; i < len(verts); i++ {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
		centroid = centroid.Add(a)
	}
	n = n.Unit()
	centroid = centroid.Scale(1 / float64(len(verts)))
	return plane{n: n, w: n.Dot(centroid)}
}

func (p plane) flipped() plane {
	return plane{n: p.n.Scale(-1), w: -p.w}
}

// Classification of a point or polygon against a plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon classifies poly against p and appends it to the
// matching output slices, splitting spanning polygons along the
// intersection line. eps is the plane-thickness tolerance.
func (p plane) splitPolygon(poly polygon, eps float64,
	coplanarFront, coplanarBack, frontOut, backOut *[]polygon) {

	polyType := 0
	types := make([]int, len(poly.verts))
	for i, v := range poly.verts {
		t := p.n.Dot(v) - p.w
		var vt int
		switch {
		case t < -eps:
			vt = back
		case t > eps:
			vt = front
		default:
			vt = coplanar
		}
		polyType |= vt
		types[i] = vt
	}

	switch polyType {
	case coplanar:
		if p.n.Dot(poly.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontOut = append(*frontOut, poly)
	case back:
		*backOut = append(*backOut, poly)
	case spanning:
		var f, b []Vec3
		n := len(poly.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti | tj) == spanning {
				t := (p.w - p.n.Dot(vi)) / p.n.Dot(vj.Sub(vi))
				v := vi.Lerp(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 && !degeneratePoints(f) {
			*frontOut = append(*frontOut, polygon{verts: f, plane: poly.plane})
		}
		if len(b) >= 3 && !degeneratePoints(b) {
			*backOut = append(*backOut, polygon{verts: b, plane: poly.plane})
		}
	}
}

// node is one BSP tree node.
type node struct {
	plane    *plane
	front    *node
	back     *node
	polygons []polygon
	eps      float64
}

func newNode(polys []polygon, eps float64) *node {
	n := &node{eps: eps}
	if len(polys) > 0 {
		n.build(polys)
	}
	return n
}

func (nd *node) invert() {
	for i := range nd.polygons {
		nd.polygons[i].flip()
	}
	if nd.plane != nil {
		*nd.plane = nd.plane.flipped()
	}
	if nd.front != nil {
		nd.front.invert()
	}
	if nd.back != nil {
		nd.back.invert()
	}
	nd.front, nd.back = nd.back, nd.front
}

// clipPolygons removes the parts of polys that lie inside this tree's
// solid.
func (nd *node) clipPolygons(polys []polygon) []polygon {
	if nd.plane == nil {
		out := make([]polygon, len(polys))
		copy(out, polys)
		return out
	}
	var frontPolys, backPolys []polygon
	for _, p := range polys {
		nd.plane.splitPolygon(p, nd.eps, &frontPolys, &backPolys, &frontPolys, &backPolys)
	}
	if nd.front != nil {
		frontPolys = nd.front.clipPolygons(frontPolys)
	}
	if nd.back != nil {
		backPolys = nd.back.clipPolygons(backPolys)
	} else {
		backPolys = nil
	}
	return append(frontPolys, backPolys...)
}

// clipTo removes the parts of this tree's polygons inside other.
func (nd *node) clipTo(other *node) {
	nd.polygons = other.clipPolygons(nd.polygons)
	if nd.front != nil {
		nd.front.clipTo(other)
	}
	if nd.back != nil {
		nd.back.clipTo(other)
	}
}

func (nd *node) allPolygons() []polygon {
	out := make([]polygon, 0, len(nd.polygons))
	out = append(out, nd.polygons...)
	if nd.front != nil {
		out = append(out, nd.front.allPolygons()...)
	}
	if nd.back != nil {
		out = append(out, nd.back.allPolygons()...)
	}
	return out
}

// maxBuildDepth bounds the tree depth. Near-parallel sliver planes
// can make the spanning split regenerate slivers forever; past the
// cap the remaining faces are stored at the node unsplit and the
// manifold check on the result decides whether the solve survives.
const maxBuildDepth = 2048

// build inserts polys into the tree, creating child nodes as needed.
func (nd *node) build(polys []polygon) {
	nd.buildDepth(polys, 0)
}

func (nd *node) buildDepth(polys []polygon, depth int) {
	if len(polys) == 0 {
		return
	}
	if depth >= maxBuildDepth {
		nd.polygons = append(nd.polygons, polys...)
		return
	}
	if nd.plane == nil {
		pl := polys[0].plane
		nd.plane = &pl
	}
	var frontPolys, backPolys []polygon
	for _, p := range polys {
		nd.plane.splitPolygon(p, nd.eps, &nd.polygons, &nd.polygons, &frontPolys, &backPolys)
	}
	if len(frontPolys) > 0 {
		if nd.front == nil {
			nd.front = &node{eps: nd.eps}
		}
		nd.front.buildDepth(frontPolys, depth+1)
	}
	if len(backPolys) > 0 {
		if nd.back == nil {
			nd.back = &node{eps: nd.eps}
		}
		nd.back.buildDepth(backPolys, depth+1)
	}
}

// csgUnion returns a ∪ b as a polygon soup.
func csgUnion(a, b []polygon, eps float64) []polygon {
	ta := newNode(a, eps)
	tb := newNode(b, eps)
	ta.clipTo(tb)
	tb.clipTo(ta)
	tb.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.build(tb.allPolygons())
	return ta.allPolygons()
}

// csgDifference returns a − b as a polygon soup.
func csgDifference(a, b []polygon, eps float64) []polygon {
	ta := newNode(a, eps)
	tb := newNode(b, eps)
	ta.invert()
	ta.clipTo(tb)
	tb.clipTo(ta)
	tb.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.build(tb.allPolygons())
	ta.invert()
	return ta.allPolygons()
}

// csgIntersection returns a ∩ b as a polygon soup.
func csgIntersection(a, b []polygon, eps float64) []polygon {
	ta := newNode(a, eps)
	tb := newNode(b, eps)
	ta.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.clipTo(tb)
	tb.clipTo(ta)
	ta.build(tb.allPolygons())
	ta.invert()
	return ta.allPolygons()
}
