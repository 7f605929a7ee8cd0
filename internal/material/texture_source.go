package material

import (
	"github.com/arcfire/phongtrace/internal/texture"
	"github.com/arcfire/phongtrace/internal/vec"
)

// TextureSource is a ColourSource backed by a loaded diffuse image,
// addressed at (u/scale, v/scale) with wraparound, per the Texture/
// TransparentTexture material contract.
type TextureSource struct {
	Image *texture.Image
	Scale float64 // 0 means 1 (no rescale)
}

func (t *TextureSource) At(uv vec.Vec3) vec.Colour {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return t.Image.At(uv.X/scale, uv.Y/scale)
}

// NormalMapSource decodes a tangent-space normal map: channels in [0,1] map
// to components in [-1,1], and the result is renormalised.
type NormalMapSource struct {
	Image *texture.Image
	Scale float64
}

func (n *NormalMapSource) At(uv vec.Vec3) vec.Vec3 {
	scale := n.Scale
	if scale == 0 {
		scale = 1
	}
	c := n.Image.At(uv.X/scale, uv.Y/scale)
	return vec.New(c.X*2-1, c.Y*2-1, c.Z*2-1).Normalize()
}

// NewTexturedPhong builds a Phong material whose base colour (and, if
// present, normal perturbation) comes from loaded images rather than a
// constant. Only diffuseImg is required; normalImg may be nil.
func NewTexturedPhong(ambient, diffuse, shininess, scale float64, diffuseImg, normalImg *texture.Image) *Phong {
	p := &Phong{
		Ambient:   ambient,
		Diffuse:   diffuse,
		Shininess: shininess,
		Base:      &TextureSource{Image: diffuseImg, Scale: scale},
	}
	if normalImg != nil {
		p.NormalMap = &NormalMapSource{Image: normalImg, Scale: scale}
	}
	return p
}

// NewTransparentTexturedMaterial builds a textured Phong coat layered with a
// refractive Global layer, for the TransparentTexture scene material class
// (e.g. a tinted glass pane with a printed diffuse pattern).
func NewTransparentTexturedMaterial(ambient, diffuse, shininess, scale, refractWeight, ior float64, diffuseImg, normalImg *texture.Image) *Compound {
	base := NewTexturedPhong(ambient, diffuse, shininess, scale, diffuseImg, normalImg)
	return NewCompound(base, NewGlobal(0, refractWeight, ior))
}
