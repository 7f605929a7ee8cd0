package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Triangle is a single face of a TriangleMesh. It is tested by intersecting
// its supporting plane, then classifying the intersection point by the sign
// of three edge-cross terms (a Moller-style plane test followed by a
// barycentric inside/outside test).
type Triangle struct {
	A, B, C       vec.Point3
	AN, BN, CN    vec.Vec3 // vertex normals, used only when Smooth
	AB, BC, CA    vec.Vec3 // edge vectors, precomputed
	PlaneNormal   vec.Vec3
	Smooth        bool
	Material      material.Material
}

func NewTriangle(a, b, c vec.Point3, mat material.Material, smooth bool) *Triangle {
	ab := b.Sub(a)
	bc := c.Sub(b)
	ca := a.Sub(c)
	return &Triangle{
		A: a, B: b, C: c,
		AB: ab, BC: bc, CA: ca,
		PlaneNormal: ab.Cross(bc).Normalize(),
		Smooth:      smooth,
		Material:    mat,
	}
}

// SetVertexNormals installs interpolation targets for smooth shading.
func (t *Triangle) SetVertexNormals(an, bn, cn vec.Vec3) {
	t.AN, t.BN, t.CN = an, bn, cn
}

// Transform moves the triangle's vertices (and, when smooth, its vertex
// normals) by t and recomputes the derived edge vectors and plane normal,
// matching the original's per-vertex apply_transform.
func (tr *Triangle) Transform(t vec.Transform) *Triangle {
	a, b, c := t.ApplyPoint(tr.A), t.ApplyPoint(tr.B), t.ApplyPoint(tr.C)
	nt := NewTriangle(a, b, c, tr.Material, tr.Smooth)
	if tr.Smooth {
		nt.SetVertexNormals(t.ApplyVector(tr.AN).Normalize(), t.ApplyVector(tr.BN).Normalize(), t.ApplyVector(tr.CN).Normalize())
	}
	return nt
}

func (t *Triangle) Bounds() AABB {
	min := vec.New(minOf3(t.A.X, t.B.X, t.C.X), minOf3(t.A.Y, t.B.Y, t.C.Y), minOf3(t.A.Z, t.B.Z, t.C.Z))
	max := vec.New(maxOf3(t.A.X, t.B.X, t.C.X), maxOf3(t.A.Y, t.B.Y, t.C.Y), maxOf3(t.A.Z, t.B.Z, t.C.Z))
	return AABB{Min: min, Max: max}
}

func (t *Triangle) plane() *Plane {
	return &Plane{Normal: t.PlaneNormal, D: -t.PlaneNormal.Dot(t.A), Up: t.AB.Normalize(), Material: t.Material}
}

// Intersect tests the supporting plane, then the three edge-cross signs.
// The non-normalised cross products double as unnormalised barycentric
// weights for smooth-normal interpolation, so no separate area division is
// needed: we only ever use the weights as relative proportions of a normal
// blend, and normalise the result.
func (t *Triangle) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer
	pl := t.plane()
	planeHits := pl.Intersect(ray)

	for i := 0; i < planeHits.Len(); i++ {
		h := planeHits.At(i)
		if math.IsInf(h.Distance, 0) {
			continue
		}
		p := h.Point

		ai := p.Sub(t.A)
		bi := p.Sub(t.B)
		ci := p.Sub(t.C)

		abN := ai.Cross(t.AB)
		bcN := bi.Cross(t.BC)
		caN := ci.Cross(t.CA)

		if !(abN.Dot(bcN) > 0 && bcN.Dot(caN) > 0) {
			continue
		}

		h.Material = t.Material
		if t.Smooth {
			alpha := bcN.Length()
			beta := caN.Length()
			gamma := abN.Length()
			n := t.AN.Scale(alpha).Add(t.BN.Scale(beta)).Add(t.CN.Scale(gamma))
			h.Normal = n.Normalize()
			if h.Entering && h.Normal.Dot(ray.Direction) > 0 {
				h.Normal = h.Normal.Negate()
			} else if !h.Entering && h.Normal.Dot(ray.Direction) < 0 {
				h.Normal = h.Normal.Negate()
			}
		}
		buf.Push(h)
	}
	return buf
}

func minOf3(a, b, c float64) float64 { return min(min(a, b), c) }
func maxOf3(a, b, c float64) float64 { return max(max(a, b), c) }
