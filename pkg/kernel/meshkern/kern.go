package meshkern

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/profile"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*Backend)(nil)
	_ kernel.Solid  = (*Solid)(nil)
)

const (
	// exactEps is the plane-thickness tolerance of the exact solver.
	exactEps = 1e-5
	// fallbackEps and fallbackGrid define the relaxed solver: inputs
	// are snapped to the grid and partitioned with a thicker plane.
	fallbackEps  = 1e-3
	fallbackGrid = 0.05 // mm
)

// Backend implements kernel.Kernel on polygon meshes.
type Backend struct{}

// New returns a new mesh kernel backend.
func New() *Backend {
	return &Backend{}
}

func unwrap(s kernel.Solid) *Solid {
	return s.(*Solid)
}

// Box creates a box standing on Z=0, centered in X and Y.
func (k *Backend) Box(w, h, d float64) (kernel.Solid, error) {
	s, err := box(w, h, d)
	if err != nil {
		// An explicit nil interface, not a nil *Solid in disguise.
		return nil, err
	}
	return s, nil
}

// Cylinder creates a capped cylinder standing on Z=0.
func (k *Backend) Cylinder(radius, height float64, segments int) (kernel.Solid, error) {
	s, err := cylinder(radius, height, segments)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Extrude sweeps a closed XZ profile along Y, centered on Y=0.
func (k *Backend) Extrude(p profile.Profile, depth float64) (kernel.Solid, error) {
	s, err := extrude(p, depth)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Union returns a ∪ b.
func (k *Backend) Union(a, b kernel.Solid, mode kernel.BoolMode) (kernel.Solid, error) {
	return k.boolean(a, b, mode, csgUnion)
}

// Difference returns a − b.
func (k *Backend) Difference(a, b kernel.Solid, mode kernel.BoolMode) (kernel.Solid, error) {
	return k.boolean(a, b, mode, csgDifference)
}

// Intersection returns a ∩ b.
func (k *Backend) Intersection(a, b kernel.Solid, mode kernel.BoolMode) (kernel.Solid, error) {
	return k.boolean(a, b, mode, csgIntersection)
}

func (k *Backend) boolean(a, b kernel.Solid, mode kernel.BoolMode,
	op func(a, b []polygon, eps float64) []polygon) (kernel.Solid, error) {

	sa, sb := unwrap(a), unwrap(b)
	if sa.IsEmpty() || sb.IsEmpty() {
		return nil, fmt.Errorf("%w: empty operand", kernel.ErrBooleanFailed)
	}

	// Operate on clones: the BSP flips faces in place and a failed
	// solve must leave the operands reusable for the retry.
	pa, pb := sa.clonePolys(), sb.clonePolys()
	eps := exactEps
	if mode == kernel.Fallback {
		eps = fallbackEps
		pa = (&Solid{polys: pa}).quantized(fallbackGrid).polys
		pb = (&Solid{polys: pb}).quantized(fallbackGrid).polys
	}

	out := cleanup(&Solid{polys: op(pa, pb, eps)})
	if out.IsEmpty() {
		return nil, fmt.Errorf("%w (%s mode)", kernel.ErrEmptyResult, mode)
	}
	if err := Validate(out); err != nil {
		return nil, fmt.Errorf("%w (%s mode): %v", kernel.ErrBooleanFailed, mode, err)
	}
	return out, nil
}

// Translate moves a solid by (x, y, z).
func (k *Backend) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).translated(Vec3{x, y, z})
}

// Rotate rotates a solid about the origin by Euler angles in degrees,
// applied as Rz·Ry·Rx.
func (k *Backend) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).rotated(eulerMatrix(x, y, z))
}

// Clone returns an independent deep copy.
func (k *Backend) Clone(s kernel.Solid) kernel.Solid {
	return &Solid{polys: unwrap(s).clonePolys()}
}

// Cleanup welds, strips degenerate faces and recomputes normals.
func (k *Backend) Cleanup(s kernel.Solid) kernel.Solid {
	return cleanup(unwrap(s))
}

// ToMesh triangulates the solid into a flat-array mesh with per-face
// normals.
func (k *Backend) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sol := unwrap(s)
	var (
		vertices []float32
		normals  []float32
		indices  []uint32
	)
	next := 0
	for _, p := range sol.polys {
		n := p.plane.n
		// Fan triangulation; BSP output faces are convex.
		for t := 1; t < len(p.verts)-1; t++ {
			for _, v := range []Vec3{p.verts[0], p.verts[t], p.verts[t+1]} {
				vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
				normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
				idx, err := safecast.Conv[uint32](next)
				if err != nil {
					return nil, fmt.Errorf("meshkern: vertex index overflow: %w", err)
				}
				indices = append(indices, idx)
				next++
			}
		}
	}
	return &kernel.Mesh{Vertices: vertices, Normals: normals, Indices: indices}, nil
}

// Destroy releases the solid's geometry.
func (k *Backend) Destroy(s kernel.Solid) {
	if s == nil {
		return
	}
	unwrap(s).polys = nil
}
