package export

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/kernel/meshkern"
)

func boxMesh(t *testing.T) *kernel.Mesh {
	t.Helper()
	k := meshkern.New()
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	return m
}

func TestWriteSTLLayout(t *testing.T) {
	m := boxMesh(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}

	want := 84 + 50*m.TriangleCount()
	if buf.Len() != want {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), want)
	}

	data := buf.Bytes()
	count := binary.LittleEndian.Uint32(data[80:84])
	if int(count) != m.TriangleCount() {
		t.Errorf("triangle count field = %d, want %d", count, m.TriangleCount())
	}
	if !bytes.HasPrefix(data, []byte("bastion terrain")) {
		t.Error("header missing identifier")
	}

	// Attribute byte count of every triangle record is zero.
	for i := 0; i < int(count); i++ {
		off := 84 + 50*i + 48
		if data[off] != 0 || data[off+1] != 0 {
			t.Errorf("triangle %d attribute word not zero", i)
		}
	}
}

func TestWriteSTLFirstTriangle(t *testing.T) {
	m := boxMesh(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}

	// First vertex of the first record matches the mesh arrays.
	i0 := m.Indices[0]
	for c := 0; c < 3; c++ {
		got := readF32(84 + 12 + 4*c)
		want := m.Vertices[3*int(i0)+c]
		if got != want {
			t.Errorf("vertex coord %d = %g, want %g", c, got, want)
		}
		gotN := readF32(84 + 4*c)
		wantN := m.Normals[3*int(i0)+c]
		if gotN != wantN {
			t.Errorf("normal coord %d = %g, want %g", c, gotN, wantN)
		}
	}
}

func TestWriteSTLMultipleMeshes(t *testing.T) {
	a := boxMesh(t)
	b := boxMesh(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, a, b); err != nil {
		t.Fatal(err)
	}
	want := 84 + 50*(a.TriangleCount()+b.TriangleCount())
	if buf.Len() != want {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), want)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84 {
		t.Errorf("empty STL is %d bytes, want 84", buf.Len())
	}
	if binary.LittleEndian.Uint32(buf.Bytes()[80:84]) != 0 {
		t.Error("empty STL count not zero")
	}
}

func TestWrite3MF(t *testing.T) {
	m := boxMesh(t)
	var buf bytes.Buffer
	err := Write3MF(&buf, []Named{
		{Name: "wall_segment_part_01", Mesh: m},
		{Name: "wall_segment_part_02", Mesh: m},
	})
	if err != nil {
		t.Fatalf("Write3MF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("3MF output empty")
	}
	// 3MF is an OPC zip container.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output does not look like a zip container")
	}
}

func TestWrite3MFErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write3MF(&buf, nil); err == nil {
		t.Error("no parts accepted")
	}
	if err := Write3MF(&buf, []Named{{Name: "empty", Mesh: &kernel.Mesh{}}}); err == nil {
		t.Error("empty mesh accepted")
	}
}
