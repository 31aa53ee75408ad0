package meshkern

import (
	"math"
	"sort"
)

const (
	// weldTolerance is the vertex merge distance.
	weldTolerance = 0.01 // mm
	// collapseTolerance drives degenerate face removal: faces thinner
	// than this are dropped.
	collapseTolerance = 0.001 // mm
	// healPasses caps the T-junction fixpoint iteration.
	healPasses = 4
)

// cleanup welds vertices within weldTolerance, drops degenerate
// faces, heals T-junctions and recomputes face planes. The result is
// a fresh solid; the input soup is not modified.
func cleanup(s *Solid) *Solid {
	verts, faces := weld(s, weldTolerance)

	loops := make([][]int, 0, len(faces))
	for _, face := range faces {
		loop := dedupLoop(face)
		if len(loop) < 3 {
			continue
		}
		pts := make([]Vec3, len(loop))
		for i, vi := range loop {
			pts[i] = verts[vi]
		}
		if degeneratePoints(pts) {
			continue
		}
		// area < ½·perimeter·collapse ⇒ the face is a sliver thinner
		// than the collapse tolerance.
		if newPolygon(pts).area() < 0.5*perimeter(pts)*collapseTolerance {
			continue
		}
		loops = append(loops, loop)
	}

	loops = healTJunctions(verts, loops)

	polys := make([]polygon, 0, len(loops))
	for _, loop := range loops {
		pts := make([]Vec3, len(loop))
		for i, vi := range loop {
			pts[i] = verts[vi]
		}
		polys = append(polys, newPolygon(pts))
	}
	return &Solid{polys: polys}
}

type meshEdge struct{ a, b int }

// healTJunctions inserts vertices into edges that another face's
// corner lands on. The partitioning solver clips coincident faces
// against unrelated plane sets, so a corner of one fragment routinely
// sits in the middle of its neighbor's edge; welding alone can never
// pair those edges. Only edges that currently lack a matching
// opposite are candidates, which keeps the scan cheap.
func healTJunctions(verts []Vec3, loops [][]int) [][]int {
	for pass := 0; pass < healPasses; pass++ {
		open := openEdges(loops)
		if len(open) == 0 {
			return loops
		}

		// Corners of open edges are the only possible midpoints.
		seen := make(map[int]bool, 2*len(open))
		for e := range open {
			seen[e.a] = true
			seen[e.b] = true
		}
		cands := make([]int, 0, len(seen))
		for vi := range seen {
			cands = append(cands, vi)
		}
		sort.Ints(cands)

		changed := false
		for fi, loop := range loops {
			healed := make([]int, 0, len(loop))
			for i, a := range loop {
				b := loop[(i+1)%len(loop)]
				healed = append(healed, a)
				if !open[meshEdge{a, b}] {
					continue
				}
				mids := onSegment(verts, a, b, cands)
				if len(mids) > 0 {
					changed = true
					healed = append(healed, mids...)
				}
			}
			loops[fi] = healed
		}
		if !changed {
			break
		}
	}
	return loops
}

// openEdges returns the directed edges whose opposite-direction use
// count does not match their own.
func openEdges(loops [][]int) map[meshEdge]bool {
	count := make(map[meshEdge]int)
	for _, loop := range loops {
		for i, a := range loop {
			count[meshEdge{a, loop[(i+1)%len(loop)]}]++
		}
	}
	open := make(map[meshEdge]bool)
	for e, c := range count {
		if c != count[meshEdge{e.b, e.a}] {
			open[e] = true
		}
	}
	return open
}

// onSegment returns the candidate vertices lying strictly between a
// and b on their segment, ordered from a to b.
func onSegment(verts []Vec3, a, b int, cands []int) []int {
	va := verts[a]
	ab := verts[b].Sub(va)
	len2 := ab.Dot(ab)
	if len2 == 0 {
		return nil
	}
	type hit struct {
		vi int
		t  float64
	}
	var hits []hit
	for _, vi := range cands {
		if vi == a || vi == b {
			continue
		}
		ap := verts[vi].Sub(va)
		t := ap.Dot(ab) / len2
		if t <= 0 || t >= 1 {
			continue
		}
		// Welding can push a junction vertex almost a full cell off
		// the split line, so accept twice the weld distance.
		if ap.Sub(ab.Scale(t)).Length() > 2*weldTolerance {
			continue
		}
		hits = append(hits, hit{vi, t})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.vi
	}
	return out
}

// weld maps every polygon corner onto a shared vertex table using a
// tolerance grid, returning the table and per-face index loops.
func weld(s *Solid, tol float64) ([]Vec3, [][]int) {
	type key struct{ x, y, z int64 }
	snap := func(v Vec3) key {
		return key{
			int64(math.Round(v.X / tol)),
			int64(math.Round(v.Y / tol)),
			int64(math.Round(v.Z / tol)),
		}
	}

	index := make(map[key]int)
	var verts []Vec3
	faces := make([][]int, 0, len(s.polys))

	for _, p := range s.polys {
		loop := make([]int, 0, len(p.verts))
		for _, v := range p.verts {
			k := snap(v)
			vi, ok := index[k]
			if !ok {
				vi = len(verts)
				index[k] = vi
				verts = append(verts, v)
			}
			loop = append(loop, vi)
		}
		faces = append(faces, loop)
	}
	return verts, faces
}

// dedupLoop removes consecutive duplicate indices (including the
// wrap-around pair) left behind by welding.
func dedupLoop(loop []int) []int {
	out := loop[:0:len(loop)]
	for i, vi := range loop {
		if i > 0 && out[len(out)-1] == vi {
			continue
		}
		out = append(out, vi)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func perimeter(pts []Vec3) float64 {
	var sum float64
	for i := 0; i < len(pts); i++ {
		sum += pts[(i+1)%len(pts)].Sub(pts[i]).Length()
	}
	return sum
}
