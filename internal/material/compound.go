package material

import "github.com/arcfire/phongtrace/internal/vec"

// Compound layers several materials together: compute_once/compute_per_light
// return the mean of the children's values, and normal mapping delegates to
// the first child that supplies one. This is how a scene combines, say, a
// Phong base coat with a Global reflective coat on the same surface.
type Compound struct {
	Children []Material
}

func NewCompound(children ...Material) *Compound {
	return &Compound{Children: children}
}

// NewSimpleCompound builds the common case of a diffuse Phong coat plus a
// partially reflective Global layer, e.g. for a polished but non-mirror
// surface such as a varnished floor.
func NewSimpleCompound(base *Phong, reflectWeight, ior float64) *Compound {
	return NewCompound(base, NewGlobal(reflectWeight, 0, ior))
}

// NewTranslucentCompound builds a Phong base coat plus a Global layer with
// both reflection and refraction, e.g. for frosted or tinted glass that
// still shows a diffuse highlight.
func NewTranslucentCompound(base *Phong, reflectWeight, refractWeight, ior float64) *Compound {
	return NewCompound(base, NewGlobal(reflectWeight, refractWeight, ior))
}

func (c *Compound) ComputeOnce(tr Tracer, viewerRay vec.Ray, hit Hit, depth int) vec.Colour {
	if len(c.Children) == 0 {
		return vec.Black()
	}
	sum := vec.Black()
	for _, m := range c.Children {
		sum = sum.Add(m.ComputeOnce(tr, viewerRay, hit, depth))
	}
	return sum.Scale(1 / float64(len(c.Children)))
}

func (c *Compound) ComputePerLight(viewerDir vec.Vec3, hit Hit, lightDir vec.Vec3) vec.Colour {
	if len(c.Children) == 0 {
		return vec.Black()
	}
	sum := vec.Black()
	for _, m := range c.Children {
		sum = sum.Add(m.ComputePerLight(viewerDir, hit, lightDir))
	}
	return sum.Scale(1 / float64(len(c.Children)))
}

func (c *Compound) Normal(hit Hit, n vec.Vec3) vec.Vec3 {
	for _, m := range c.Children {
		perturbed := m.Normal(hit, n)
		if !perturbed.Equals(n) {
			return perturbed
		}
	}
	return n
}

func (c *Compound) PhotonMapped() bool {
	for _, m := range c.Children {
		if m.PhotonMapped() {
			return true
		}
	}
	return false
}

func (c *Compound) Weights() PhotonWeights {
	if len(c.Children) == 0 {
		return PhotonWeights{}
	}
	var sum PhotonWeights
	n := 0
	for _, m := range c.Children {
		if !m.PhotonMapped() {
			continue
		}
		w := m.Weights()
		sum.Diffuse += w.Diffuse
		sum.Specular += w.Specular
		sum.ReflectOrRefract += w.ReflectOrRefract
		n++
	}
	if n == 0 {
		return PhotonWeights{}
	}
	inv := 1 / float64(n)
	return PhotonWeights{Diffuse: sum.Diffuse * inv, Specular: sum.Specular * inv, ReflectOrRefract: sum.ReflectOrRefract * inv}
}

// GlobalChild returns the first child satisfying FresnelCapable, letting the
// photon-mapping environment reach through a Compound material (e.g. a
// Phong base coat layered with a Global reflective/refractive coat) to the
// Fresnel machinery it needs for the ReflectOrRefract photon branch.
func (c *Compound) GlobalChild() (FresnelCapable, bool) {
	for _, m := range c.Children {
		if g, ok := m.(FresnelCapable); ok {
			return g, true
		}
	}
	return nil, false
}

func (c *Compound) BouncedPhoton(incoming vec.Colour, hit Hit) vec.Colour {
	if len(c.Children) == 0 {
		return incoming
	}
	sum := vec.Black()
	for _, m := range c.Children {
		sum = sum.Add(m.BouncedPhoton(incoming, hit))
	}
	return sum.Scale(1 / float64(len(c.Children)))
}
