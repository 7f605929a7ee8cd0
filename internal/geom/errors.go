package geom

import "github.com/arcfire/phongtrace/internal/sceneerr"

// errNonInvertible reports the GeometryError spec.md section 7 requires when
// a transform with no inverse is applied to a plane or quadric.
func errNonInvertible(kind string) error {
	return sceneerr.NewGeometryError("non-invertible transform applied to "+kind, nil)
}
