package vec

// Ray is a half-line with a unit direction, as required by the data model:
// direction is normalized once at construction so downstream distance math
// (Hit.Distance, shadow ray limits) is in world units.
type Ray struct {
	Origin    Point3
	Direction Vec3
}

func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayTo builds a ray from origin toward target.
func NewRayTo(origin, target Point3) Ray {
	return NewRay(origin, target.Sub(origin))
}

// At returns the point reached after travelling distance t along the ray.
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Offset nudges the ray's origin by eps along dir, used to avoid self
// intersection when spawning shadow, reflection, refraction and photon rays.
func Offset(origin Point3, dir Vec3, eps float64) Point3 {
	return origin.Add(dir.Scale(eps))
}
