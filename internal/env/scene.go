// Package env implements the environment: the dispatcher that owns a
// scene's primitives and lights and exposes the two rendering strategies,
// classical Whitted ray tracing (Scene) and emission-based photon mapping
// (PhotonScene, in photonscene.go).
package env

import (
	"math"

	"github.com/arcfire/phongtrace/internal/geom"
	"github.com/arcfire/phongtrace/internal/light"
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// shadowEps is the lower bound excluded from shadow tests, keeping a shadow
// ray from reporting the surface it was just cast from as its own occluder.
const shadowEps = 1e-7

// rayOffsetEps nudges shadow rays off the surface along the light direction.
const rayOffsetEps = 1e-4

// Scene owns an ordered list of primitives and lights and implements
// classical Whitted ray tracing: nearest hit, local shading per light with
// shadow testing, and (via the hit's Material) recursive reflection and
// refraction.
type Scene struct {
	Primitives []geom.Primitive
	Lights     []light.Light
}

// NewScene returns an empty scene; primitives and lights are appended with
// Add/AddLight as the parser builds the scene graph.
func NewScene() *Scene { return &Scene{} }

func (s *Scene) Add(p geom.Primitive)    { s.Primitives = append(s.Primitives, p) }
func (s *Scene) AddLight(l light.Light)  { s.Lights = append(s.Lights, l) }

// nearestHit finds the closest hit across every primitive with
// distance > 0 and Entering == true, matching the Whitted raytrace
// contract's first step.
func (s *Scene) nearestHit(ray vec.Ray) (material.Hit, bool) {
	var best material.Hit
	found := false
	for _, p := range s.Primitives {
		hits := p.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if !h.Entering || h.Distance <= 0 || math.IsInf(h.Distance, 0) {
				continue
			}
			if !found || h.Distance < best.Distance {
				best = h
				found = true
			}
		}
	}
	return best, found
}

// Raytrace implements section 4.3's algorithm: find the nearest hit, shade
// it once (ambient/recursive term), then accumulate each unshadowed light's
// diffuse+specular contribution.
func (s *Scene) Raytrace(ray vec.Ray, depth int) material.RenderResult {
	hit, ok := s.nearestHit(ray)
	if !ok {
		return material.RenderResult{Colour: vec.Black(), Depth: 0}
	}

	mat := hit.Material
	if mat == nil {
		return material.RenderResult{Colour: vec.Black(), Depth: hit.Distance}
	}

	n := mat.Normal(hit, hit.Normal)
	shaded := hit
	shaded.Normal = n

	colour := mat.ComputeOnce(s, ray, shaded, depth)

	for _, l := range s.Lights {
		dir, ok := l.Direction(hit.Point)
		if !ok {
			continue
		}
		if dir.Dot(n) > 0 {
			continue // light is behind the surface from this hit's perspective
		}

		shadowOrigin := vec.Offset(hit.Point, dir.Negate(), rayOffsetEps)
		shadowRay := vec.NewRay(shadowOrigin, dir.Negate())
		limit := l.Distance(hit.Point)
		if s.ShadowTrace(shadowRay, limit) {
			continue
		}

		viewerDir := ray.Direction.Negate() // toward the eye, not into the surface
		colour = colour.Add(mat.ComputePerLight(viewerDir, shaded, dir).Mul(l.Intensity(hit.Point)))
	}

	return material.RenderResult{Colour: colour, Depth: hit.Distance}
}

// ShadowTrace reports whether any primitive has a hit with
// shadowEps < distance < limit, per section 4.3.
func (s *Scene) ShadowTrace(ray vec.Ray, limit float64) bool {
	for _, p := range s.Primitives {
		hits := p.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if h.Distance > shadowEps && h.Distance < limit {
				return true
			}
		}
	}
	return false
}
