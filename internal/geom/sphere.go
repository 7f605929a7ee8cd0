package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Sphere is a closed primitive: a ray that hits it at all produces exactly
// two ordered hits, the nearer entering and the farther exiting.
type Sphere struct {
	Center   vec.Point3
	Radius   float64
	Material material.Material
}

func NewSphere(center vec.Point3, radius float64, mat material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Transform moves the sphere's centre by t, matching the original's own
// sphere transform (it does not resize the radius, so a non-rigid transform
// such as a non-uniform scale distorts the sphere into a true ellipsoid only
// in position, not in shape -- the same limitation the teacher lineage's
// sphere object carries).
func (s *Sphere) Transform(t vec.Transform) *Sphere {
	return &Sphere{Center: t.ApplyPoint(s.Center), Radius: s.Radius, Material: s.Material}
}

func (s *Sphere) Bounds() AABB {
	r := vec.New(s.Radius, s.Radius, s.Radius)
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Intersect solves the quadratic |o + t*d - c|^2 = r^2 in the ray's own
// frame. Two real roots become two ordered hits; a negative discriminant
// means no intersection at all.
func (s *Sphere) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer

	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return buf
	}
	sqrtD := math.Sqrt(disc)

	t0 := (-halfB - sqrtD) / a
	t1 := (-halfB + sqrtD) / a

	buf.Push(s.makeHit(ray, t0, true))
	buf.Push(s.makeHit(ray, t1, false))
	return buf
}

func (s *Sphere) makeHit(ray vec.Ray, t float64, entering bool) material.Hit {
	point := ray.At(t)
	outward := point.Sub(s.Center).Scale(1 / s.Radius)
	n := outward
	if entering && n.Dot(ray.Direction) > 0 {
		n = n.Negate()
	} else if !entering && n.Dot(ray.Direction) < 0 {
		n = n.Negate()
	}

	// Equirectangular texture coordinates from the outward normal.
	theta := math.Acos(clampUnit(-outward.Y))
	phi := math.Atan2(-outward.Z, outward.X) + math.Pi
	u := phi / (2 * math.Pi)
	v := (math.Pi - theta) / math.Pi

	return material.Hit{
		Distance: t,
		Entering: entering,
		Point:    point,
		Normal:   n,
		Material: s.Material,
		UV:       vec.New(u, v, 0),
	}
}

// Tangent returns the tangent-space basis vector e1 used to rotate a normal
// map into world space at p: e1 = (1,0,0) x (p - centre), per the
// tangent-space rotation rule for sphere normal maps.
func (s *Sphere) Tangent(p vec.Point3) vec.Vec3 {
	return vec.New(1, 0, 0).Cross(p.Sub(s.Center)).Normalize()
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
