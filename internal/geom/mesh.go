package geom

import (
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// TriangleMesh owns a set of triangles loaded from an external model file
// (see internal/meshio) and is opaque: per the intersection contract, a mesh
// returns only its closest hit for a given ray rather than every face's hit
// pair, because a mesh is not expected to be fed into CSG as an open shell.
type TriangleMesh struct {
	Faces  []*Triangle
	Smooth bool
}

func NewTriangleMesh(faces []*Triangle, smooth bool) *TriangleMesh {
	for _, f := range faces {
		f.Smooth = smooth
	}
	return &TriangleMesh{Faces: faces, Smooth: smooth}
}

// Transform applies t to every face, matching the original's polymesh
// apply_transform (transform every vertex, then every triangle).
func (m *TriangleMesh) Transform(t vec.Transform) *TriangleMesh {
	faces := make([]*Triangle, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = f.Transform(t)
	}
	return &TriangleMesh{Faces: faces, Smooth: m.Smooth}
}

func (m *TriangleMesh) Bounds() AABB {
	if len(m.Faces) == 0 {
		return AABB{}
	}
	b := m.Faces[0].Bounds()
	for _, f := range m.Faces[1:] {
		b = b.Union(f.Bounds())
	}
	return b
}

// Intersect returns only the single closest hit across all faces: a mesh is
// opaque and is not meant to feed into CSG the way a closed primitive would.
func (m *TriangleMesh) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer
	var best *material.Hit

	for _, f := range m.Faces {
		hits := f.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if best == nil || h.Distance < best.Distance {
				hc := h
				best = &hc
			}
		}
	}

	if best != nil {
		buf.Push(*best)
	}
	return buf
}
