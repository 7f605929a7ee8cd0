package material

import (
	"math"

	"github.com/arcfire/phongtrace/internal/vec"
)

// maxRecursionDepth bounds reflection/refraction (and view) recursion; at
// this depth compute_once returns black unconditionally.
const maxRecursionDepth = 5

const rayOffsetEps = 1e-4

// Global implements the reflective/refractive layer: Fresnel-weighted
// recursive reflection and Snell refraction through a dielectric interface.
// reflect_weight and refract_weight are independent scalar weights in
// [0,1]; they are not required to sum to 1 (a material can be partially
// reflective and partially refractive, or neither).
type Global struct {
	ReflectWeight float64
	RefractWeight float64
	IOR           float64 // index of refraction
}

func NewGlobal(reflectWeight, refractWeight, ior float64) *Global {
	return &Global{ReflectWeight: reflectWeight, RefractWeight: refractWeight, IOR: ior}
}

func (g *Global) ComputeOnce(tr Tracer, viewerRay vec.Ray, hit Hit, depth int) vec.Colour {
	if depth >= maxRecursionDepth {
		return vec.Black()
	}

	var reflection, refraction vec.Colour
	haveReflection, haveRefraction := false, false
	kr := 0.0

	if g.ReflectWeight > 0 {
		reflectDir := viewerRay.Direction.Reflect(hit.Normal).Normalize()
		origin := vec.Offset(hit.Point, reflectDir, rayOffsetEps)
		ray := vec.NewRay(origin, reflectDir)
		reflection = tr.Raytrace(ray, depth+1).Colour.Scale(g.ReflectWeight)
		haveReflection = true
	}

	if g.RefractWeight > 0 {
		if t, kk, ok := refract(viewerRay.Direction, hit.Normal, hit.Entering, g.IOR); ok {
			kr = kk
			origin := vec.Offset(hit.Point, t, rayOffsetEps)
			ray := vec.NewRay(origin, t)
			refraction = tr.Raytrace(ray, depth+1).Colour.Scale(g.RefractWeight)
			haveRefraction = true
		}
	}

	switch {
	case haveReflection && haveRefraction:
		return reflection.Scale(kr).Add(refraction.Scale(1 - kr))
	case haveReflection:
		return reflection
	case haveRefraction:
		return refraction
	default:
		return vec.Black()
	}
}

func (g *Global) ComputePerLight(vec.Vec3, Hit, vec.Vec3) vec.Colour { return vec.Black() }
func (g *Global) Normal(hit Hit, n vec.Vec3) vec.Vec3                { return n }
func (g *Global) PhotonMapped() bool                                 { return g.ReflectWeight > 0 || g.RefractWeight > 0 }

func (g *Global) Weights() PhotonWeights {
	if g.ReflectWeight > 0 || g.RefractWeight > 0 {
		return PhotonWeights{ReflectOrRefract: 1}
	}
	return PhotonWeights{}
}

func (g *Global) BouncedPhoton(incoming vec.Colour, hit Hit) vec.Colour { return incoming }

// Reflectance computes the unpolarised Fresnel reflectance k_r for the given
// incidence, exposed standalone so the photon-mapping path (ReflectOrRefract
// branch selection) can reuse the exact same formula.
func (g *Global) Reflectance(incidentDir, n vec.Vec3, entering bool) float64 {
	_, kr, ok := refract(incidentDir, n, entering, g.IOR)
	if !ok {
		return 1 // total internal reflection: all energy reflects
	}
	return kr
}

// TIR reports whether the incident ray undergoes total internal reflection
// at this interface.
func (g *Global) TIR(incidentDir, n vec.Vec3, entering bool) bool {
	_, _, ok := refract(incidentDir, n, entering, g.IOR)
	return !ok
}

// RefractDirection exposes the transmitted direction computation for
// callers (the photon-mapping ReflectOrRefract branch) that need the same
// Snell refraction this material's ComputeOnce uses internally.
func (g *Global) RefractDirection(incidentDir vec.Vec3, hit Hit) (vec.Vec3, float64, bool) {
	return refract(incidentDir, hit.Normal, hit.Entering, g.IOR)
}

// FresnelCapable is satisfied by Global (and, transitively, by Compound via
// GlobalChild) and gives the photon-mapping environment's ReflectOrRefract
// branch the Fresnel/Snell machinery without it needing to import the
// material package's concrete Global type for anything beyond the Material
// interface.
type FresnelCapable interface {
	Reflectance(incidentDir, n vec.Vec3, entering bool) float64
	TIR(incidentDir, n vec.Vec3, entering bool) bool
	RefractDirection(incidentDir vec.Vec3, hit Hit) (vec.Vec3, float64, bool)
}

// refract computes the transmitted direction and Fresnel reflectance for a
// ray with direction incidentDir hitting a dielectric surface with geometric
// normal n at IOR ior. Returns ok=false on total internal reflection.
func refract(incidentDir, n vec.Vec3, entering bool, ior float64) (t vec.Vec3, kr float64, ok bool) {
	N := n
	d := incidentDir
	i := d.Negate()
	cosThetaI := N.Dot(i)

	var eta1, eta2 float64
	if entering {
		N = N.Negate()
		eta1, eta2 = 1.0, ior
	} else {
		cosThetaI = -cosThetaI
		eta1, eta2 = ior, 1.0
	}

	ratio := eta1 / eta2
	sin2ThetaT := ratio * ratio * (1 - cosThetaI*cosThetaI)
	cos2ThetaT := 1 - sin2ThetaT
	if cos2ThetaT < 0 {
		return vec.Vec3{}, 0, false // total internal reflection
	}
	cosThetaT := math.Sqrt(cos2ThetaT)

	transmitted := i.Scale(ratio).Sub(N.Scale(cosThetaT - ratio*cosThetaI))
	transmitted = transmitted.Negate().Normalize()

	rPar := (eta2*cosThetaI - eta1*cosThetaT) / (eta2*cosThetaI + eta1*cosThetaT)
	rPer := (eta1*cosThetaI - eta2*cosThetaT) / (eta1*cosThetaI + eta2*cosThetaT)
	kr = (rPar*rPar + rPer*rPer) / 2

	return transmitted, kr, true
}
