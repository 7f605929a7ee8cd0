package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Plane is the two-sided half-space boundary n.p + d = 0 with outward normal
// n. The solid is the side n.p + d <= 0, behind the normal; a ray parallel to the plane and already inside that
// solid produces an enter-at(-Inf)/exit-at(+Inf) sentinel pair so CSG can
// still treat it as a closed-ish half-space, matching the original plane
// intersection routine this is ported from.
type Plane struct {
	Normal   vec.Vec3 // unit normal, per n.p + d = 0
	D        float64
	Up       vec.Vec3 // tangent frame for texture coordinates
	Material material.Material
}

// NewPlane builds a plane through point p with the given normal. up is
// projected to be perpendicular to normal and normalised, giving the tangent
// frame (up, up x normal) used for texture coordinates.
func NewPlane(p vec.Point3, normal, up vec.Vec3, mat material.Material) *Plane {
	n := normal.Normalize()
	u := up.Sub(n.Scale(up.Dot(n))).Normalize()
	return &Plane{
		Normal:   n,
		D:        -n.Dot(p),
		Up:       u,
		Material: mat,
	}
}

func (p *Plane) Bounds() AABB { return UnboundedAABB() }

// Transform applies t to the plane's defining coefficients (Normal, D) as
// the covector (a,b,c,d) -> T^-T (a,b,c,d), so that intersecting the
// transformed plane with a world-space ray matches intersecting the
// original plane with the ray mapped into local space by T^-1 -- the same
// construction as Quadric.Transform, specialised to a degree-one surface.
func (p *Plane) Transform(t vec.Transform) (*Plane, error) {
	if !t.Invertible() {
		return nil, errNonInvertible("plane")
	}
	invT := t.Inverse().Transposed()
	r := invT.Apply4([4]float64{p.Normal.X, p.Normal.Y, p.Normal.Z, p.D})

	n := vec.New(r[0], r[1], r[2])
	length := n.Length()
	n = n.Normalize()
	return &Plane{
		Normal:   n,
		D:        r[3] / length,
		Up:       t.ApplyVector(p.Up).Normalize(),
		Material: p.Material,
	}, nil
}

// Intersect solves n.(o + t*d) + D = 0 for t, i.e. t = -(n.o + D) / (n.d).
func (p *Plane) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer

	u := p.Normal.Dot(ray.Origin) + p.D
	v := p.Normal.Dot(ray.Direction)

	if v == 0 {
		if u <= 0 {
			buf.Push(p.sentinelHit(true, math.Inf(-1)))
			buf.Push(p.sentinelHit(false, math.Inf(1)))
		}
		return buf
	}

	t := u / -v
	if v > 0 {
		buf.Push(p.sentinelHit(true, math.Inf(-1)))
		buf.Push(p.finiteHit(ray, false, t))
	} else {
		buf.Push(p.finiteHit(ray, true, t))
		buf.Push(p.sentinelHit(false, math.Inf(1)))
	}
	return buf
}

// sentinelHit builds a +/-Inf hit; its point and normal are not meaningful
// and callers must never dereference them geometrically.
func (p *Plane) sentinelHit(entering bool, t float64) material.Hit {
	return material.Hit{
		Distance: t,
		Entering: entering,
		Material: p.Material,
	}
}

func (p *Plane) finiteHit(ray vec.Ray, entering bool, t float64) material.Hit {
	point := ray.At(t)
	n := p.Normal
	if (entering && n.Dot(ray.Direction) > 0) || (!entering && n.Dot(ray.Direction) < 0) {
		n = n.Negate()
	}
	across := p.Up.Cross(p.Normal)
	uv := vec.New(point.Dot(p.Up), point.Dot(across), 0)
	return material.Hit{
		Distance: t,
		Entering: entering,
		Point:    point,
		Normal:   n,
		Material: p.Material,
		UV:       uv,
	}
}
