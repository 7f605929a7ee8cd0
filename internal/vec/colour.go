package vec

import "github.com/lucasb-eyer/go-colorful"

// ToSRGB8 implements the Colour invariant that channels are only clamped to
// [0,1] at file write time: negative channels (which can arise from
// subtractive material combinations) are floored at zero, clamped to [0,1]
// and quantised to 8 bits per channel. No gamma curve is applied: the
// stored bytes are the linear values scaled by 255.
func (v Vec3) ToSRGB8() (r, g, b byte) {
	lin := colorful.Color{R: nonNegative(v.X), G: nonNegative(v.Y), B: nonNegative(v.Z)}
	srgb := lin.Clamped()
	r8, g8, b8 := srgb.RGB255()
	return r8, g8, b8
}

func nonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// BlendLab blends two colours in CIE Lab space at parameter t (0 returns a,
// 1 returns b), used by the photon-mapping final gather to merge the
// regular and caustic map surface terms perceptually rather than in raw
// linear RGB.
func BlendLab(a, b Colour, t float64) Colour {
	ca := colorful.Color{R: clamp01(a.X), G: clamp01(a.Y), B: clamp01(a.Z)}
	cb := colorful.Color{R: clamp01(b.X), G: clamp01(b.Y), B: clamp01(b.Z)}
	blended := ca.BlendLab(cb, t)
	return Colour{blended.R, blended.G, blended.B}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
