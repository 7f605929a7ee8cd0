// Package geom implements the geometry primitives: plane, sphere, cuboid,
// quadric, triangle mesh, and the CSG combinator over any two of them. Every
// primitive exposes the same Intersect contract producing an ordered
// multi-hit sequence, per the intersection discipline shared across the
// whole package.
package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Primitive is the uniform intersection contract every shape (and the CSG
// combinator) satisfies. Runtime polymorphism here is a plain interface,
// not a type hierarchy: CSG nodes hold two Primitive children as boxed
// capabilities and know nothing about their concrete type.
type Primitive interface {
	// Intersect returns every hit the ray makes with the primitive, in ray
	// order, paired entering/exiting for closed primitives.
	Intersect(ray vec.Ray) material.HitBuffer

	// Bounds returns a conservative axis-aligned bounding box, used by
	// mesh/CSG acceleration structures that need one; primitives with no
	// natural bound (an infinite plane) return an unbounded box.
	Bounds() AABB
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max vec.Point3
}

// UnboundedAABB returns a box covering all of space, used by planes and
// other primitives with no finite extent.
func UnboundedAABB() AABB {
	const inf = math.MaxFloat64
	return AABB{Min: vec.New(-inf, -inf, -inf), Max: vec.New(inf, inf, inf)}
}

// ApplyTransform applies t to any primitive this package knows how to build,
// dispatching to each concrete type's own Transform method and propagating
// into a CSG node's children rather than storing the transform on the node.
// Plane and Quadric reject a non-invertible t with a GeometryError (spec.md
// section 7); every other primitive only ever needs the forward transform.
func ApplyTransform(p Primitive, t vec.Transform) (Primitive, error) {
	switch v := p.(type) {
	case *Plane:
		return v.Transform(t)
	case *Sphere:
		return v.Transform(t), nil
	case *Cuboid:
		return v.Transform(t), nil
	case *Quadric:
		return v.Transform(t)
	case *Triangle:
		return v.Transform(t), nil
	case *TriangleMesh:
		return v.Transform(t), nil
	case *CSG:
		return v.Transform(t)
	default:
		return nil, sceneerr.NewGeometryError("transform applied to a primitive type with no transform support", nil)
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: vec.New(min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y), min(a.Min.Z, b.Min.Z)),
		Max: vec.New(max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y), max(a.Max.Z, b.Max.Z)),
	}
}
