package env

import (
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/photon"
	"github.com/arcfire/phongtrace/internal/vec"
)

// maxViewRecursionDepth is the same 5-deep hard cap applied to reflection
// and refraction recursion in internal/material.Global (section 4.4: "View
// recursion has the same 5-deep hard cap as section 4.2").
const maxViewRecursionDepth = 5

// Raytrace implements final gathering: cast an eye ray, find the nearest
// hit, and blend a photon-map-derived surface term with recursive
// reflection and refraction terms. PreRender must have completed before
// this is called.
func (p *PhotonScene) Raytrace(ray vec.Ray, depth int) material.RenderResult {
	hit, ok := p.nearestHit(ray)
	if !ok {
		return material.RenderResult{Colour: vec.Black(), Depth: 0}
	}
	if depth >= maxViewRecursionDepth {
		return material.RenderResult{Colour: vec.Black(), Depth: hit.Distance}
	}

	mat := hit.Material
	if mat == nil {
		return material.RenderResult{Colour: vec.Black(), Depth: hit.Distance}
	}
	n := mat.Normal(hit, hit.Normal)
	shaded := hit
	shaded.Normal = n

	w := mat.Weights()
	r := w.ReflectOrRefract
	s := 1 - r // Absorb + Diffuse + Specular, since weights sum to <= 1

	var surface, reflect, refract vec.Colour

	if s > 0 {
		surface = p.surfaceTerm(ray, shaded, mat)
	}

	if r > 0 {
		reflectDir := ray.Direction.Reflect(n)
		origin := vec.Offset(hit.Point, reflectDir, rayOffsetEps)
		reflect = p.Raytrace(vec.NewRay(origin, reflectDir), depth+1).Colour.Scale(r)

		if g, ok := findGlobalLike(mat); ok {
			if t, _, tok := g.RefractDirection(ray.Direction, shaded); tok {
				origin := vec.Offset(hit.Point, t, rayOffsetEps)
				refract = p.Raytrace(vec.NewRay(origin, t), depth+1).Colour.Scale(r)
			}
		}
	}

	denom := s + 2*r
	var colour vec.Colour
	if denom > 0 {
		colour = surface.Add(reflect).Add(refract).Scale(1 / denom)
	}

	return material.RenderResult{Colour: colour, Depth: hit.Distance}
}

// surfaceTerm implements section 4.4 step 3: average the photons within
// gatherRadius of the hit into a synthetic photon and evaluate the
// material's diffuse+specular response to it, then merge in the caustic
// map's average at the same location weighted by its share of the total
// photon count found.
func (p *PhotonScene) surfaceTerm(ray vec.Ray, hit material.Hit, mat material.Material) vec.Colour {
	var regularFound, causticFound []photon.Found
	if p.regular != nil {
		regularFound = p.regular.WithinRadius(hit.Point, gatherRadius)
	}
	if p.caustic != nil {
		causticFound = p.caustic.WithinRadius(hit.Point, gatherRadius)
	}
	if len(regularFound) == 0 && len(causticFound) == 0 {
		return vec.Black()
	}

	viewerDir := ray.Direction.Negate() // toward the eye, not into the surface

	var term vec.Colour
	if len(regularFound) > 0 {
		dir, intensity := averagePhoton(regularFound)
		term = mat.ComputePerLight(viewerDir, hit, dir).Mul(intensity)
	}

	if len(causticFound) > 0 {
		dir, intensity := averagePhoton(causticFound)
		causticTerm := mat.ComputePerLight(viewerDir, hit, dir).Mul(intensity)
		weight := float64(len(causticFound)) / float64(len(causticFound)+len(regularFound))
		// Blend in Lab space rather than linear RGB: the caustic term is a
		// sharp, saturated highlight and a perceptual blend avoids the
		// washed-out look a linear mix gives it against the broad regular term.
		term = vec.BlendLab(term, causticTerm, weight)
	}

	return term
}

// averagePhoton collapses a set of found photons into a single synthetic
// photon's (incident direction, intensity), used by both the regular and
// caustic gather passes.
func averagePhoton(found []photon.Found) (vec.Vec3, vec.Colour) {
	var dirSum, intensitySum vec.Vec3
	for _, f := range found {
		dirSum = dirSum.Add(f.Photon.Incident)
		intensitySum = intensitySum.Add(f.Photon.Intensity)
	}
	n := float64(len(found))
	return dirSum.Scale(1 / n).Normalize(), intensitySum.Scale(1 / n)
}

// ShadowTrace reports whether any primitive has a hit with
// shadowEps < distance < limit, matching Scene's contract; PhotonScene
// exposes it for parity even though final gather resolves occlusion
// implicitly through the photon map rather than explicit shadow rays
// (spec.md section 9's shadow-photon open question: this implementation
// does not consult stored Shadow photons to short-circuit shadow tests).
func (p *PhotonScene) ShadowTrace(ray vec.Ray, limit float64) bool {
	for _, prim := range p.Primitives {
		hits := prim.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if h.Distance > shadowEps && h.Distance < limit {
				return true
			}
		}
	}
	return false
}
