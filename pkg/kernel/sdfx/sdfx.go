// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Booleans on signed
// distance fields cannot fail, so both tolerance modes behave the
// same and Cleanup is a no-op; the cost is that meshes come out of
// marching cubes as approximations rather than exact polyhedra. The
// backend is kept for fast preview output next to the default mesh
// kernel.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/profile"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box standing on Z=0, centered in X and Y. Width runs
// along X, height along Z, depth along Y. sdf.Box3D centers the box
// at the origin, so it is lifted by half the height.
func (k *SdfxKernel) Box(w, h, d float64) (kernel.Solid, error) {
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: box %gx%gx%g", kernel.ErrInvalidGeometry, w, h, d)
	}
	s, err := sdf.Box3D(v3.Vec{X: w, Y: d, Z: h}, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	m := sdf.Translate3d(v3.Vec{Z: h / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder standing on Z=0. The segments parameter
// is ignored since SDF surfaces are smooth.
func (k *SdfxKernel) Cylinder(radius, height float64, segments int) (kernel.Solid, error) {
	if radius <= 0 || height <= 0 || segments < 3 {
		return nil, fmt.Errorf("%w: cylinder r=%g h=%g segments=%d",
			kernel.ErrInvalidGeometry, radius, height, segments)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Extrude sweeps a closed XZ profile along Y, centered on Y=0. The
// profile becomes an sdf 2D polygon in the XY plane, is extruded
// along Z and then rotated back so the profile's Z axis points up.
func (k *SdfxKernel) Extrude(p profile.Profile, depth float64) (kernel.Solid, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: extrude depth %g", kernel.ErrInvalidGeometry, depth)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	if !p.CounterClockwise() {
		p = p.Reversed()
	}
	pts := make([]v2.Vec, len(p))
	for i, pt := range p {
		pts[i] = v2.Vec{X: pt.X, Y: pt.Z}
	}
	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	s := sdf.Extrude3D(poly, depth)
	// Extrusion runs along Z; rotate about X so it runs along Y and
	// the profile's Z coordinate points up again.
	m := sdf.RotateX(math.Pi / 2)
	return wrap(sdf.Transform3D(s, m)), nil
}

// Union returns the union of two solids. SDF composition cannot fail,
// so the mode is ignored.
func (k *SdfxKernel) Union(a, b kernel.Solid, _ kernel.BoolMode) (kernel.Solid, error) {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b))), nil
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid, _ kernel.BoolMode) (kernel.Solid, error) {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b))), nil
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid, _ kernel.BoolMode) (kernel.Solid, error) {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b))), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Clone shares the underlying distance field, which is immutable.
func (k *SdfxKernel) Clone(s kernel.Solid) kernel.Solid {
	return wrap(unwrap(s))
}

// Cleanup is a no-op: distance fields have no mesh to weld until
// ToMesh extracts one.
func (k *SdfxKernel) Cleanup(s kernel.Solid) kernel.Solid {
	return s
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// Destroy is a no-op; distance fields are garbage collected.
func (k *SdfxKernel) Destroy(kernel.Solid) {}
