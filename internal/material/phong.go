package material

import (
	"math"

	"github.com/arcfire/phongtrace/internal/vec"
)

// ColourSource supplies a base colour at a hit's texture coordinate; a solid
// Phong material and a textured one differ only in which ColourSource they
// plug in.
type ColourSource interface {
	At(uv vec.Vec3) vec.Colour
}

// SolidColour is a constant ColourSource, used by monochrome Phong materials.
type SolidColour vec.Colour

func (s SolidColour) At(vec.Vec3) vec.Colour { return vec.Colour(s) }

// NormalSource supplies a tangent-space normal perturbation at a hit's
// texture coordinate; textured materials with a normal map implement this.
type NormalSource interface {
	At(uv vec.Vec3) vec.Vec3
}

// Phong is the classical local illumination model: an ambient term from
// ComputeOnce plus a per-light diffuse+specular term.
type Phong struct {
	Ambient    float64
	Diffuse    float64
	Shininess  float64
	Base       ColourSource
	NormalMap  NormalSource // optional, may be nil
	Specular   vec.Colour   // specular highlight colour, defaults to white if zero
}

// NewPhong builds a Phong material with a solid base colour.
func NewPhong(ambient, diffuse, shininess float64, base vec.Colour) *Phong {
	return &Phong{Ambient: ambient, Diffuse: diffuse, Shininess: shininess, Base: SolidColour(base)}
}

func (p *Phong) baseColour(hit Hit) vec.Colour {
	if p.Base == nil {
		return vec.White()
	}
	return p.Base.At(hit.UV)
}

// ComputeOnce returns the ambient term k_a * base_colour(hit).
func (p *Phong) ComputeOnce(_ Tracer, _ vec.Ray, hit Hit, _ int) vec.Colour {
	return p.baseColour(hit).Scale(p.Ambient)
}

// ComputePerLight returns k_d*base*max(0,-n.l) + specular*max(0,v.reflect(l,n))^shininess.
func (p *Phong) ComputePerLight(viewerDir vec.Vec3, hit Hit, lightDir vec.Vec3) vec.Colour {
	nDotL := -hit.Normal.Dot(lightDir)
	if nDotL < 0 {
		nDotL = 0
	}
	diffuse := p.baseColour(hit).Scale(p.Diffuse * nDotL)

	reflected := lightDir.Reflect(hit.Normal)
	vDotR := viewerDir.Dot(reflected)
	if vDotR < 0 {
		vDotR = 0
	}
	specStrength := math.Pow(vDotR, p.Shininess)
	specColour := p.Specular
	if specColour.IsZero() {
		specColour = vec.White()
	}

	return diffuse.Add(specColour.Scale(specStrength))
}

// Normal perturbs n by the tangent-space normal map if one is present.
func (p *Phong) Normal(hit Hit, n vec.Vec3) vec.Vec3 {
	if p.NormalMap == nil {
		return n
	}
	return p.NormalMap.At(hit.UV)
}

func (p *Phong) PhotonMapped() bool { return p.Diffuse > 0 }

func (p *Phong) Weights() PhotonWeights {
	if p.Diffuse <= 0 {
		return PhotonWeights{}
	}
	return PhotonWeights{Diffuse: p.Diffuse}
}

func (p *Phong) BouncedPhoton(incoming vec.Colour, hit Hit) vec.Colour {
	return incoming.Mul(p.baseColour(hit))
}
