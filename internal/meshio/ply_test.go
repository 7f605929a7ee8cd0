package meshio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPLY builds a minimal binary_little_endian PLY with one triangle
// and per-vertex normals, byte-for-byte, to exercise LoadPLY without a
// fixture file checked into the repo.
func writeTestPLY(t *testing.T, path string) {
	t.Helper()
	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float nx\n" +
		"property float ny\n" +
		"property float nz\n" +
		"element face 1\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"

	var buf bytes.Buffer
	buf.WriteString(header)

	vertices := [][6]float32{
		{0, 0, 0, 0, 1, 0},
		{1, 0, 0, 0, 1, 0},
		{0, 1, 0, 0, 1, 0},
	}
	for _, v := range vertices {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, []int32{0, 1, 2})

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPLYTriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.ply")
	writeTestPLY(t, path)

	mesh, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if len(mesh.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(mesh.Vertices))
	}
	if len(mesh.Normals) != 3 {
		t.Fatalf("normals = %d, want 3", len(mesh.Normals))
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("faces = %d, want 1", len(mesh.Faces))
	}
	if mesh.Faces[0] != (Face{0, 1, 2}) {
		t.Errorf("face = %+v, want {0 1 2}", mesh.Faces[0])
	}
	if mesh.Vertices[1].X != 1 {
		t.Errorf("vertex[1].X = %v, want 1", mesh.Vertices[1].X)
	}
	if mesh.Normals[0].Y != 1 {
		t.Errorf("normal[0].Y = %v, want 1", mesh.Normals[0].Y)
	}
}

func TestLoadPLYRejectsASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii.ply")
	src := "ply\nformat ascii 1.0\nelement vertex 0\nend_header\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPLY(path); err == nil {
		t.Fatal("expected an error for ascii PLY format")
	}
}

func TestLoadPLYMissingFile(t *testing.T) {
	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
