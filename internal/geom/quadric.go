package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Quadric is the general second-degree surface
//
//	a*x^2 + 2b*xy + 2c*xz + 2d*x + e*y^2 + 2f*yz + 2g*y + h*z^2 + 2i*z + j = 0
//
// represented by its symmetric 4x4 coefficient matrix Q such that the
// surface is the zero set of p^T Q p in homogeneous coordinates.
type Quadric struct {
	A, B, C, D, E, F, G, H, I, J float64
	Material                     material.Material
}

func NewQuadric(a, b, c, d, e, f, g, h, i, j float64, mat material.Material) *Quadric {
	return &Quadric{A: a, B: b, C: c, D: d, E: e, F: f, G: g, H: h, I: i, J: j, Material: mat}
}

// NewCylinder returns an infinite cylinder of the given diameter along the Z
// axis, as the quadric preset x^2/r^2 + y^2/r^2 - 1 = 0.
func NewCylinder(diameter float64, mat material.Material) *Quadric {
	radius := diameter / 2
	a := 1 / (radius * radius)
	return NewQuadric(a, 0, 0, 0, a, 0, 0, 0, 0, -1, mat)
}

func (q *Quadric) Bounds() AABB { return UnboundedAABB() }

// Transform applies T to the quadric's defining matrix as Q -> T^-T Q T^-1,
// so that intersecting the transformed quadric with a world-space ray
// matches intersecting the original quadric with the ray mapped into local
// space by T^-1.
func (q *Quadric) Transform(t vec.Transform) (*Quadric, error) {
	if !t.Invertible() {
		return nil, errNonInvertible("quadric")
	}
	inv := t.Inverse()
	invT := inv.Transposed()

	m := [4][4]float64{
		{q.A, q.B, q.C, q.D},
		{q.B, q.E, q.F, q.G},
		{q.C, q.F, q.H, q.I},
		{q.D, q.G, q.I, q.J},
	}
	qm := vec.FromRows(m)
	result := invT.Mul(qm).Mul(inv)

	r := result.Row(0)
	a, b, c, d := r[0], r[1], r[2], r[3]
	r1 := result.Row(1)
	e, f, g := r1[1], r1[2], r1[3]
	r2 := result.Row(2)
	h, i := r2[2], r2[3]
	j := result.Row(3)[3]

	return NewQuadric(a, b, c, d, e, f, g, h, i, j, q.Material), nil
}

// Intersect solves the quadratic in the ray parameter t obtained by
// substituting r(t) = P + tD into the quadric equation.
func (q *Quadric) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer

	p, d := ray.Origin, ray.Direction
	a, b, c, dd, e, f, g, h, i, j := q.A, q.B, q.C, q.D, q.E, q.F, q.G, q.H, q.I, q.J

	aq := a*d.X*d.X + 2*b*d.X*d.Y + 2*c*d.X*d.Z + e*d.Y*d.Y + 2*f*d.Y*d.Z + h*d.Z*d.Z
	bq := 2 * (a*p.X*d.X + b*(p.X*d.Y+p.Y*d.X) + c*(p.X*d.Z+d.X*p.Z) + dd*d.X +
		e*p.Y*d.Y + f*(p.Y*d.Z+d.Y*p.Z) + g*d.Y + h*p.Z*d.Z + i*d.Z)
	cq := a*p.X*p.X + 2*b*p.X*p.Y + 2*c*p.X*p.Z + 2*dd*p.X +
		e*p.Y*p.Y + 2*f*p.Y*p.Z + 2*g*p.Y + h*p.Z*p.Z + 2*i*p.Z + j

	if math.Abs(aq) == 0 {
		// Purely tangential or degenerate: no usable hit pair.
		return buf
	}

	disc := bq*bq - 4*aq*cq
	if disc < 0 {
		return buf
	}
	sq := math.Sqrt(disc)
	t0 := (-bq - sq) / (2 * aq)
	t1 := (-bq + sq) / (2 * aq)
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	buf.Push(q.makeHit(ray, t0, true))
	buf.Push(q.makeHit(ray, t1, false))
	return buf
}

func (q *Quadric) makeHit(ray vec.Ray, t float64, entering bool) material.Hit {
	p := ray.At(t)
	grad := vec.New(
		q.A*p.X+q.B*p.Y+q.C*p.Z+q.D,
		q.B*p.X+q.E*p.Y+q.F*p.Z+q.G,
		q.C*p.X+q.F*p.Y+q.H*p.Z+q.I,
	).Normalize()
	if (entering && grad.Dot(ray.Direction) > 0) || (!entering && grad.Dot(ray.Direction) < 0) {
		grad = grad.Negate()
	}
	return material.Hit{
		Distance: t,
		Entering: entering,
		Point:    p,
		Normal:   grad,
		Material: q.Material,
	}
}
