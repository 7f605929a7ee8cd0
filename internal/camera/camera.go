// Package camera implements primary ray generation: a pinhole camera with a
// validated orthonormal basis, mapping integer pixel coordinates to world
// rays.
package camera

import (
	"math"

	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/vec"
)

// perpEps is the tolerance within which lookat and up must be perpendicular
// for a camera to construct successfully (section 4.5).
const perpEps = 1e-4

// Camera stores width, height, field of view, position, and an orthonormal
// basis (right, up, look) derived from a lookat direction and an up hint.
type Camera struct {
	Width, Height int
	FOV           float64 // vertical field of view, radians
	Position      vec.Point3

	look  vec.Vec3
	up    vec.Vec3
	right vec.Vec3
}

// New builds a camera at position, looking along the direction lookAt, with
// up as the world-space up hint. Construction fails with a GeometryError if lookat
// and up are not perpendicular within perpEps, matching section 4.5's
// invariant.
func New(width, height int, fovDegrees float64, position, lookAt, up vec.Vec3) (*Camera, error) {
	look := lookAt.Normalize()
	upN := up.Normalize()

	if math.Abs(look.Dot(upN)) > perpEps {
		return nil, sceneerr.NewGeometryError("camera lookat and up vectors are not perpendicular", nil)
	}

	right := look.Cross(upN).Normalize()
	trueUp := right.Cross(look).Normalize()

	return &Camera{
		Width:    width,
		Height:   height,
		FOV:      fovDegrees * math.Pi / 180,
		Position: position,
		look:     look,
		up:       trueUp,
		right:    right,
	}, nil
}

// RayFor maps integer pixel (x, y) to a world-space ray through that
// pixel's centre. Image y is flipped relative to world y, per section 4.5:
// increasing image-y corresponds to decreasing world-y.
func (c *Camera) RayFor(x, y int) vec.Ray {
	ndcX := (float64(x)+0.5)/float64(c.Width) - 0.5
	ndcY := (float64(y)+0.5)/float64(c.Height) - 0.5

	aspect := float64(c.Width) / float64(c.Height)
	halfHeight := math.Tan(c.FOV / 2)
	halfWidth := halfHeight * aspect

	fx := ndcX * 2 * halfWidth
	fy := -ndcY * 2 * halfHeight // flip: increasing image-y -> decreasing world-y

	dir := c.look.Add(c.right.Scale(fx)).Add(c.up.Scale(fy)).Normalize()
	return vec.NewRay(c.Position, dir)
}

// Look, Up, Right expose the validated basis for tests and diagnostics.
func (c *Camera) Look() vec.Vec3  { return c.look }
func (c *Camera) Up() vec.Vec3    { return c.up }
func (c *Camera) Right() vec.Vec3 { return c.right }
