// Package kernel defines the abstract geometry kernel interface.
// Implementations (meshkern, sdfx) provide solid modeling and
// boolean operations behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import "github.com/calthrop/bastion/pkg/profile"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
//
// Ownership is linear: a Solid belongs to whichever pipeline stage
// currently holds it. Boolean operations consume their operands and
// return a new Solid; consumed operands must not be used again.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// BoolMode selects the boolean solver tolerance.
type BoolMode int

const (
	// Exact solves with tight tolerances. May fail on near-coplanar
	// or degenerate inputs.
	Exact BoolMode = iota
	// Fallback quantizes inputs to a relaxed grid before solving.
	// Trades positional accuracy for robustness.
	Fallback
)

func (m BoolMode) String() string {
	if m == Fallback {
		return "fallback"
	}
	return "exact"
}

// Kernel is the abstract geometry kernel interface.
// Implementations (meshkern, sdfx) provide solid modeling behind this
// interface. Primitive constructors validate their inputs and return
// ErrInvalidGeometry on degenerate requests.
type Kernel interface {
	// Primitives. Box is centered at the origin in X and Y with its
	// base at Z=0 (walls stand on the ground plane). Cylinder stands
	// on Z=0 centered in X and Y. Extrude sweeps a closed XZ profile
	// along Y, centered on Y=0.
	Box(w, h, d float64) (Solid, error)
	Cylinder(radius, height float64, segments int) (Solid, error)
	Extrude(p profile.Profile, depth float64) (Solid, error)

	// Boolean operations. Operands are consumed; the result is a new
	// Solid. A nil result with a non-nil error means the solve failed
	// and the inputs were left untouched so the caller can retry with
	// a different mode.
	Union(a, b Solid, mode BoolMode) (Solid, error)
	Difference(a, b Solid, mode BoolMode) (Solid, error)
	Intersection(a, b Solid, mode BoolMode) (Solid, error)

	// Transforms.
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Clone returns an independent copy of s. The print-bed splitter
	// bisects by cutting two clones of the same solid.
	Clone(s Solid) Solid

	// Cleanup merges vertices within 0.01 mm, removes degenerate
	// faces within a 0.001 mm collapse tolerance and recomputes
	// outward normals. Returns the cleaned solid.
	Cleanup(s Solid) Solid

	// Mesh output.
	ToMesh(s Solid) (*Mesh, error)

	// Destroy releases a solid that will not be used again. Cutter
	// operands are destroyed after every boolean so high-vertex-count
	// intermediates never accumulate across a generation.
	Destroy(s Solid)
}
