package vec

import "math"

// Transform is a 4x4 affine matrix shared (by reference) across primitives
// that are built under it. It is immutable once constructed; composing
// transforms or inverting one always returns a new value.
type Transform struct {
	m [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.m[i][i] = 1
	}
	return t
}

// FromRows builds a transform directly from its 16 entries in row-major order.
func FromRows(m [4][4]float64) Transform { return Transform{m: m} }

// Translate returns a transform that translates by (x, y, z).
func Translate(x, y, z float64) Transform {
	t := Identity()
	t.m[0][3], t.m[1][3], t.m[2][3] = x, y, z
	return t
}

// Scale3 returns a transform that scales non-uniformly about the origin.
func Scale3(x, y, z float64) Transform {
	t := Identity()
	t.m[0][0], t.m[1][1], t.m[2][2] = x, y, z
	return t
}

// RotateX, RotateY, RotateZ return transforms rotating by angle radians
// around the respective axis, composed in that order by callers that need
// all three (matching the rotation convention of Vec3.Rotate in the teacher
// lineage: X, then Y, then Z).
func RotateX(angle float64) Transform {
	c, s := math.Cos(angle), math.Sin(angle)
	t := Identity()
	t.m[1][1], t.m[1][2] = c, -s
	t.m[2][1], t.m[2][2] = s, c
	return t
}

func RotateY(angle float64) Transform {
	c, s := math.Cos(angle), math.Sin(angle)
	t := Identity()
	t.m[0][0], t.m[0][2] = c, s
	t.m[2][0], t.m[2][2] = -s, c
	return t
}

func RotateZ(angle float64) Transform {
	c, s := math.Cos(angle), math.Sin(angle)
	t := Identity()
	t.m[0][0], t.m[0][1] = c, -s
	t.m[1][0], t.m[1][1] = s, c
	return t
}

// Mul composes transforms: (t.Mul(o)).Apply(p) == t.Apply(o.Apply(p)).
func (t Transform) Mul(o Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t.m[i][k] * o.m[k][j]
			}
			r.m[i][j] = sum
		}
	}
	return r
}

// ApplyPoint transforms a point (implicit homogeneous w=1).
func (t Transform) ApplyPoint(p Point3) Point3 {
	x := t.m[0][0]*p.X + t.m[0][1]*p.Y + t.m[0][2]*p.Z + t.m[0][3]
	y := t.m[1][0]*p.X + t.m[1][1]*p.Y + t.m[1][2]*p.Z + t.m[1][3]
	z := t.m[2][0]*p.X + t.m[2][1]*p.Y + t.m[2][2]*p.Z + t.m[2][3]
	return Point3{x, y, z}
}

// ApplyVector transforms a free vector (implicit homogeneous w=0, no
// translation) -- used for ray directions.
func (t Transform) ApplyVector(v Vec3) Vec3 {
	x := t.m[0][0]*v.X + t.m[0][1]*v.Y + t.m[0][2]*v.Z
	y := t.m[1][0]*v.X + t.m[1][1]*v.Y + t.m[1][2]*v.Z
	z := t.m[2][0]*v.X + t.m[2][1]*v.Y + t.m[2][2]*v.Z
	return Vec3{x, y, z}
}

// ApplyRay transforms both the ray's origin and direction.
func (t Transform) ApplyRay(r Ray) Ray {
	return Ray{Origin: t.ApplyPoint(r.Origin), Direction: t.ApplyVector(r.Direction)}
}

// Row returns row i (0-indexed) of the matrix, used by plane/quadric
// coefficient transforms below.
func (t Transform) Row(i int) [4]float64 { return t.m[i] }

// Apply4 applies t to a raw homogeneous 4-vector, used by Plane's coefficient
// transform (a plane's (a,b,c,d) transforms as a covector, by T^-T, the same
// construction Quadric.Transform uses for its coefficient matrix).
func (t Transform) Apply4(v [4]float64) [4]float64 {
	var r [4]float64
	for i := 0; i < 4; i++ {
		r[i] = t.m[i][0]*v[0] + t.m[i][1]*v[1] + t.m[i][2]*v[2] + t.m[i][3]*v[3]
	}
	return r
}

// Transposed returns the matrix transpose.
func (t Transform) Transposed() Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.m[i][j] = t.m[j][i]
		}
	}
	return r
}

// Inverse computes the general 4x4 inverse via the adjugate/cofactor method.
// It panics if the matrix is singular; geometry constructors that apply a
// transform to a plane or quadric are documented to fail construction
// (GeometryError) rather than let this panic escape -- callers must check
// Invertible first when building from user-supplied scene data.
func (t Transform) Inverse() Transform {
	m := t.m
	var inv [4][4]float64

	inv[0][0] = m[1][1]*m[2][2]*m[3][3] - m[1][1]*m[2][3]*m[3][2] - m[2][1]*m[1][2]*m[3][3] + m[2][1]*m[1][3]*m[3][2] + m[3][1]*m[1][2]*m[2][3] - m[3][1]*m[1][3]*m[2][2]
	inv[1][0] = -m[1][0]*m[2][2]*m[3][3] + m[1][0]*m[2][3]*m[3][2] + m[2][0]*m[1][2]*m[3][3] - m[2][0]*m[1][3]*m[3][2] - m[3][0]*m[1][2]*m[2][3] + m[3][0]*m[1][3]*m[2][2]
	inv[2][0] = m[1][0]*m[2][1]*m[3][3] - m[1][0]*m[2][3]*m[3][1] - m[2][0]*m[1][1]*m[3][3] + m[2][0]*m[1][3]*m[3][1] + m[3][0]*m[1][1]*m[2][3] - m[3][0]*m[1][3]*m[2][1]
	inv[3][0] = -m[1][0]*m[2][1]*m[3][2] + m[1][0]*m[2][2]*m[3][1] + m[2][0]*m[1][1]*m[3][2] - m[2][0]*m[1][2]*m[3][1] - m[3][0]*m[1][1]*m[2][2] + m[3][0]*m[1][2]*m[2][1]

	inv[0][1] = -m[0][1]*m[2][2]*m[3][3] + m[0][1]*m[2][3]*m[3][2] + m[2][1]*m[0][2]*m[3][3] - m[2][1]*m[0][3]*m[3][2] - m[3][1]*m[0][2]*m[2][3] + m[3][1]*m[0][3]*m[2][2]
	inv[1][1] = m[0][0]*m[2][2]*m[3][3] - m[0][0]*m[2][3]*m[3][2] - m[2][0]*m[0][2]*m[3][3] + m[2][0]*m[0][3]*m[3][2] + m[3][0]*m[0][2]*m[2][3] - m[3][0]*m[0][3]*m[2][2]
	inv[2][1] = -m[0][0]*m[2][1]*m[3][3] + m[0][0]*m[2][3]*m[3][1] + m[2][0]*m[0][1]*m[3][3] - m[2][0]*m[0][3]*m[3][1] - m[3][0]*m[0][1]*m[2][3] + m[3][0]*m[0][3]*m[2][1]
	inv[3][1] = m[0][0]*m[2][1]*m[3][2] - m[0][0]*m[2][2]*m[3][1] - m[2][0]*m[0][1]*m[3][2] + m[2][0]*m[0][2]*m[3][1] + m[3][0]*m[0][1]*m[2][2] - m[3][0]*m[0][2]*m[2][1]

	inv[0][2] = m[0][1]*m[1][2]*m[3][3] - m[0][1]*m[1][3]*m[3][2] - m[1][1]*m[0][2]*m[3][3] + m[1][1]*m[0][3]*m[3][2] + m[3][1]*m[0][2]*m[1][3] - m[3][1]*m[0][3]*m[1][2]
	inv[1][2] = -m[0][0]*m[1][2]*m[3][3] + m[0][0]*m[1][3]*m[3][2] + m[1][0]*m[0][2]*m[3][3] - m[1][0]*m[0][3]*m[3][2] - m[3][0]*m[0][2]*m[1][3] + m[3][0]*m[0][3]*m[1][2]
	inv[2][2] = m[0][0]*m[1][1]*m[3][3] - m[0][0]*m[1][3]*m[3][1] - m[1][0]*m[0][1]*m[3][3] + m[1][0]*m[0][3]*m[3][1] + m[3][0]*m[0][1]*m[1][3] - m[3][0]*m[0][3]*m[1][1]
	inv[3][2] = -m[0][0]*m[1][1]*m[3][2] + m[0][0]*m[1][2]*m[3][1] + m[1][0]*m[0][1]*m[3][2] - m[1][0]*m[0][2]*m[3][1] - m[3][0]*m[0][1]*m[1][2] + m[3][0]*m[0][2]*m[1][1]

	inv[0][3] = -m[0][1]*m[1][2]*m[2][3] + m[0][1]*m[1][3]*m[2][2] + m[1][1]*m[0][2]*m[2][3] - m[1][1]*m[0][3]*m[2][2] - m[2][1]*m[0][2]*m[1][3] + m[2][1]*m[0][3]*m[1][2]
	inv[1][3] = m[0][0]*m[1][2]*m[2][3] - m[0][0]*m[1][3]*m[2][2] - m[1][0]*m[0][2]*m[2][3] + m[1][0]*m[0][3]*m[2][2] + m[2][0]*m[0][2]*m[1][3] - m[2][0]*m[0][3]*m[1][2]
	inv[2][3] = -m[0][0]*m[1][1]*m[2][3] + m[0][0]*m[1][3]*m[2][1] + m[1][0]*m[0][1]*m[2][3] - m[1][0]*m[0][3]*m[2][1] - m[2][0]*m[0][1]*m[1][3] + m[2][0]*m[0][3]*m[1][1]
	inv[3][3] = m[0][0]*m[1][1]*m[2][2] - m[0][0]*m[1][2]*m[2][1] - m[1][0]*m[0][1]*m[2][2] + m[1][0]*m[0][2]*m[2][1] + m[2][0]*m[0][1]*m[1][2] - m[2][0]*m[0][2]*m[1][1]

	det := m[0][0]*inv[0][0] + m[0][1]*inv[1][0] + m[0][2]*inv[2][0] + m[0][3]*inv[3][0]
	if det == 0 {
		panic("vec: matrix is not invertible")
	}
	invDet := 1 / det
	for i := range inv {
		for j := range inv[i] {
			inv[i][j] *= invDet
		}
	}
	return Transform{m: inv}
}

// Invertible reports whether Inverse would succeed, letting geometry
// constructors reject a degenerate transform with a GeometryError instead
// of panicking (spec.md §7 GeometryError: "non-invertible transform applied
// to a plane or quadric").
func (t Transform) Invertible() bool {
	m := t.m
	det := m[0][0]*(m[1][1]*(m[2][2]*m[3][3]-m[2][3]*m[3][2])-m[1][2]*(m[2][1]*m[3][3]-m[2][3]*m[3][1])+m[1][3]*(m[2][1]*m[3][2]-m[2][2]*m[3][1])) -
		m[0][1]*(m[1][0]*(m[2][2]*m[3][3]-m[2][3]*m[3][2])-m[1][2]*(m[2][0]*m[3][3]-m[2][3]*m[3][0])+m[1][3]*(m[2][0]*m[3][2]-m[2][2]*m[3][0])) +
		m[0][2]*(m[1][0]*(m[2][1]*m[3][3]-m[2][3]*m[3][1])-m[1][1]*(m[2][0]*m[3][3]-m[2][3]*m[3][0])+m[1][3]*(m[2][0]*m[3][1]-m[2][1]*m[3][0])) -
		m[0][3]*(m[1][0]*(m[2][1]*m[3][2]-m[2][2]*m[3][1])-m[1][1]*(m[2][0]*m[3][2]-m[2][2]*m[3][0])+m[1][2]*(m[2][0]*m[3][1]-m[2][1]*m[3][0]))
	return math.Abs(det) > 1e-12
}
