// Package meshio loads triangle meshes from external files so the
// "MeshFile" object paragraph (section 4.1's Triangle primitive, owned by a
// mesh) can reference a file instead of listing every face inline. Only
// binary_little_endian PLY is supported, matching the teacher's own PLY
// loader, which never implemented ascii or big-endian either.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Face is a triangulated face: three indices into Mesh.Vertices.
type Face [3]int

// Mesh is the raw vertex/face data decoded from a mesh file, before it is
// turned into geom.Triangle primitives.
type Mesh struct {
	Vertices []vec.Point3
	Normals  []vec.Vec3 // len 0 if the file carries no per-vertex normals
	Faces    []Face
}

type plyProperty struct {
	name     string
	dataType string
}

type plyHeader struct {
	format       string
	vertexCount  int
	faceCount    int
	vertexProps  []plyProperty
	normalX      int
	normalY      int
	normalZ      int
	hasNormals   bool
}

// LoadPLY reads a binary_little_endian PLY file and triangulates every face
// (fan triangulation for polygons wider than 3 vertices).
func LoadPLY(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot open PLY mesh", err)
	}
	defer f.Close()

	header, headerLen, err := parsePLYHeader(f)
	if err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot parse PLY header", err)
	}
	if header.format != "binary_little_endian" {
		return nil, sceneerr.NewAssetError(path, fmt.Sprintf("unsupported PLY format %q (only binary_little_endian)", header.format), nil)
	}
	if _, err := f.Seek(int64(headerLen), io.SeekStart); err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot seek past PLY header", err)
	}

	mesh := &Mesh{Vertices: make([]vec.Point3, 0, header.vertexCount)}
	if header.hasNormals {
		mesh.Normals = make([]vec.Vec3, 0, header.vertexCount)
	}

	vertexSize := 0
	for _, p := range header.vertexProps {
		vertexSize += binarySize(p.dataType)
	}

	buf := make([]byte, vertexSize)
	for i := 0; i < header.vertexCount; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, sceneerr.NewAssetError(path, "truncated PLY vertex data", err)
		}
		values := make([]float64, len(header.vertexProps))
		offset := 0
		for j, p := range header.vertexProps {
			values[j] = readBinaryFloat(buf[offset:], p.dataType)
			offset += binarySize(p.dataType)
		}
		mesh.Vertices = append(mesh.Vertices, vec.New(values[0], values[1], values[2]))
		if header.hasNormals {
			mesh.Normals = append(mesh.Normals, vec.New(values[header.normalX], values[header.normalY], values[header.normalZ]))
		}
	}

	br := bufio.NewReader(f)
	for i := 0; i < header.faceCount; i++ {
		countByte, err := br.ReadByte()
		if err != nil {
			return nil, sceneerr.NewAssetError(path, "truncated PLY face data", err)
		}
		n := int(countByte)
		idx := make([]int32, n)
		if err := binary.Read(br, binary.LittleEndian, &idx); err != nil {
			return nil, sceneerr.NewAssetError(path, "truncated PLY face indices", err)
		}
		for k := 1; k < n-1; k++ {
			mesh.Faces = append(mesh.Faces, Face{int(idx[0]), int(idx[k]), int(idx[k+1])})
		}
	}

	return mesh, nil
}

func binarySize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "ushort", "int16", "uint16":
		return 2
	case "char", "uchar", "int8", "uint8":
		return 1
	default:
		return 4
	}
}

func readBinaryFloat(b []byte, dataType string) float64 {
	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
}

func parsePLYHeader(f *os.File) (*plyHeader, int, error) {
	header := &plyHeader{normalX: -1, normalY: -1, normalZ: -1}
	scanner := bufio.NewScanner(f)
	bytesRead := 0
	currentElement := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1
		if line == "end_header" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) >= 2 {
				header.format = fields[1]
			}
		case "element":
			if len(fields) >= 3 {
				count, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, 0, fmt.Errorf("invalid element count %q", fields[2])
				}
				currentElement = fields[1]
				switch currentElement {
				case "vertex":
					header.vertexCount = count
				case "face":
					header.faceCount = count
				}
			}
		case "property":
			if currentElement != "vertex" {
				continue
			}
			if fields[1] == "list" {
				continue // face index list property, handled structurally
			}
			name := fields[2]
			header.vertexProps = append(header.vertexProps, plyProperty{name: name, dataType: fields[1]})
			idx := len(header.vertexProps) - 1
			switch name {
			case "nx":
				header.hasNormals, header.normalX = true, idx
			case "ny":
				header.normalY = idx
			case "nz":
				header.normalZ = idx
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return header, bytesRead, nil
}
