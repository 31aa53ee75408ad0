// Package export writes finished meshes to printable file formats:
// binary STL and 3MF.
package export

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"

	"github.com/calthrop/bastion/pkg/kernel"
)

const stlHeaderSize = 80

// WriteSTL writes meshes as one binary STL body. STL has no notion
// of named parts, so multiple meshes are concatenated into a single
// triangle soup; use 3MF when part identity matters.
func WriteSTL(w io.Writer, meshes ...*kernel.Mesh) error {
	var total uint32
	for _, m := range meshes {
		n, err := safecast.Conv[uint32](m.TriangleCount())
		if err != nil {
			return fmt.Errorf("stl: %w", err)
		}
		total += n
	}

	var header [stlHeaderSize]byte
	copy(header[:], "bastion terrain")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, total); err != nil {
		return fmt.Errorf("stl: count: %w", err)
	}

	// 50 bytes per triangle: normal, three vertices, attribute word.
	var tri [12 + 3*12 + 2]byte
	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			i0 := m.Indices[3*t]
			i1 := m.Indices[3*t+1]
			i2 := m.Indices[3*t+2]

			putVec(tri[0:], m.Normals, i0)
			putVec(tri[12:], m.Vertices, i0)
			putVec(tri[24:], m.Vertices, i1)
			putVec(tri[36:], m.Vertices, i2)
			tri[48], tri[49] = 0, 0

			if _, err := w.Write(tri[:]); err != nil {
				return fmt.Errorf("stl: triangle %d: %w", t, err)
			}
		}
	}
	return nil
}

func putVec(dst []byte, src []float32, idx uint32) {
	for c := 0; c < 3; c++ {
		bits := math.Float32bits(src[3*idx+uint32(c)])
		binary.LittleEndian.PutUint32(dst[4*c:], bits)
	}
}
