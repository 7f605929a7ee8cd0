// Package material implements the Phong shading and global (reflective /
// refractive) illumination model, plus the texture and compound combinators
// layered on top of them. Materials are shared, reference-counted values:
// Go's garbage collector gives us that for free, so a Material is simply
// passed around by its interface value and multiple primitives or compound
// materials may alias the same instance.
package material

import "github.com/arcfire/phongtrace/internal/vec"

// Tracer is the narrow view of an environment that a material needs in
// order to recurse (reflection, refraction, shadow tests). Defining it here
// rather than importing the env package keeps material free of a dependency
// on the renderer's dispatcher; internal/env satisfies this interface.
type Tracer interface {
	Raytrace(ray vec.Ray, depth int) RenderResult
	ShadowTrace(ray vec.Ray, limit float64) bool
}

// RenderResult is the {colour, depth} pair returned by a full ray trace,
// matching the data model: depth is the nearest entering hit's distance, or
// 0 on a miss.
type RenderResult struct {
	Colour vec.Colour
	Depth  float64
}

// PhotonBehaviour is the branch chosen when a photon interacts with a
// material during emission.
type PhotonBehaviour int

const (
	Absorb PhotonBehaviour = iota
	Diffuse
	Specular
	ReflectOrRefract
)

// PhotonWeights gives the relative probability of each photon behaviour.
// The data model requires these to sum to <= 1 for any photon-mapped
// material; the remainder (if any) is implicit additional absorption.
type PhotonWeights struct {
	Diffuse          float64
	Specular         float64
	ReflectOrRefract float64
}

// Sum returns the total weight across the three sampled branches; Absorb is
// always possible and has no explicit weight (see ComputeOnce/PhotonWeights
// callers: absorption fires unconditionally per spec's photontrace step 3,
// separately from the branch choice here).
func (w PhotonWeights) Sum() float64 {
	return w.Diffuse + w.Specular + w.ReflectOrRefract
}

// Material is the behavioural contract every surface material satisfies. It
// mirrors the ray-trace contract (ComputeOnce/ComputePerLight) and the
// optional photon-map contract (PhotonMapped/PhotonWeights/BouncedPhoton).
type Material interface {
	// ComputeOnce is invoked once per hit, independent of any particular
	// light; it carries the ambient term and recursive reflection/refraction.
	ComputeOnce(tr Tracer, viewerRay vec.Ray, hit Hit, depth int) vec.Colour

	// ComputePerLight is invoked once for every light that reaches the hit
	// (i.e. passed the shadow test), accumulating the diffuse+specular term.
	ComputePerLight(viewerDir vec.Vec3, hit Hit, lightDir vec.Vec3) vec.Colour

	// Normal lets a material perturb the geometric normal (normal mapping);
	// implementations with nothing to contribute return n unchanged.
	Normal(hit Hit, n vec.Vec3) vec.Vec3

	// PhotonMapped reports whether this material participates in photon
	// emission at all; a purely ambient/unlit material may return false.
	PhotonMapped() bool

	// Weights returns the photon behaviour weights used by photontrace's
	// Russian-roulette branch selection. Only meaningful if PhotonMapped.
	Weights() PhotonWeights

	// BouncedPhoton computes the outgoing photon intensity for a diffuse or
	// specular bounce off this material, given the incoming photon
	// intensity and the hit.
	BouncedPhoton(incoming vec.Colour, hit Hit) vec.Colour
}
