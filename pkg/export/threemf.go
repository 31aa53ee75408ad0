package export

import (
	"fmt"
	"io"

	"github.com/hpinc/go3mf"

	"github.com/calthrop/bastion/pkg/kernel"
)

// Named pairs a mesh with the part name carried into the 3MF model.
type Named struct {
	Name string
	Mesh *kernel.Mesh
}

// Write3MF writes the parts as one 3MF model in millimeters, each
// part as its own named build item so slicers can arrange them.
func Write3MF(w io.Writer, parts []Named) error {
	if len(parts) == 0 {
		return fmt.Errorf("3mf: no parts")
	}

	model := new(go3mf.Model)
	model.Units = go3mf.UnitMillimeter

	for i, part := range parts {
		m := part.Mesh
		if m.IsEmpty() {
			return fmt.Errorf("3mf: part %q is empty", part.Name)
		}
		obj := &go3mf.Object{
			ID:   uint32(i + 1),
			Name: part.Name,
			Mesh: new(go3mf.Mesh),
		}
		for v := 0; v < m.VertexCount(); v++ {
			// Point3D is a bare [3]float32.
			obj.Mesh.Vertices.Vertex = append(obj.Mesh.Vertices.Vertex, go3mf.Point3D{
				m.Vertices[3*v],
				m.Vertices[3*v+1],
				m.Vertices[3*v+2],
			})
		}
		for t := 0; t < m.TriangleCount(); t++ {
			obj.Mesh.Triangles.Triangle = append(obj.Mesh.Triangles.Triangle, go3mf.Triangle{
				V1: m.Indices[3*t],
				V2: m.Indices[3*t+1],
				V3: m.Indices[3*t+2],
			})
		}
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})
	}

	if err := go3mf.NewEncoder(w).Encode(model); err != nil {
		return fmt.Errorf("3mf: encode: %w", err)
	}
	return nil
}
