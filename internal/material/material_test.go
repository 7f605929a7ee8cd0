package material

import (
	"math"
	"testing"

	"github.com/arcfire/phongtrace/internal/vec"
)

type stubTracer struct{}

func (stubTracer) Raytrace(vec.Ray, int) RenderResult   { return RenderResult{Colour: vec.White()} }
func (stubTracer) ShadowTrace(vec.Ray, float64) bool     { return false }

func TestFresnelEnergyInRange(t *testing.T) {
	g := NewGlobal(0, 1, 1.5)
	n := vec.New(0, 1, 0)

	for deg := 0; deg < 90; deg += 5 {
		rad := float64(deg) * math.Pi / 180
		dir := vec.New(math.Sin(rad), -math.Cos(rad), 0)
		kr := g.Reflectance(dir, n, true)
		if kr < 0 || kr > 1 {
			t.Fatalf("k_r out of range at %d degrees: %v", deg, kr)
		}
	}
}

func TestFresnelApproachesOneAtGrazing(t *testing.T) {
	g := NewGlobal(0, 1, 1.5)
	n := vec.New(0, 1, 0)

	near0 := vec.New(math.Sin(0.01), -math.Cos(0.01), 0)
	nearGrazing := vec.New(math.Sin(1.5), -math.Cos(1.5), 0)

	krNear0 := g.Reflectance(near0, n, true)
	krGrazing := g.Reflectance(nearGrazing, n, true)

	if krGrazing < krNear0 {
		t.Errorf("expected reflectance to increase toward grazing angle: %v (near-normal) vs %v (grazing)", krNear0, krGrazing)
	}
}

func TestGlobalComputeOnceRecursionCap(t *testing.T) {
	g := NewGlobal(1, 0, 1.5)
	hit := Hit{Point: vec.New(0, 0, 0), Normal: vec.New(0, 1, 0)}
	ray := vec.NewRay(vec.New(0, -1, 0), vec.New(0, 1, 0))

	c := g.ComputeOnce(stubTracer{}, ray, hit, maxRecursionDepth)
	if !c.IsBlack() {
		t.Errorf("expected black at recursion cap, got %v", c)
	}
}

func TestPhongAmbientTerm(t *testing.T) {
	p := NewPhong(0.5, 0.5, 10, vec.New(1, 0, 0))
	hit := Hit{}
	c := p.ComputeOnce(nil, vec.Ray{}, hit, 0)
	if !c.Equals(vec.New(0.5, 0, 0)) {
		t.Errorf("ComputeOnce = %v, want (0.5,0,0)", c)
	}
}

func TestPhongSpecularHighlightUsesTowardEyeViewer(t *testing.T) {
	// Light straight down, surface normal up: the reflected light direction
	// is straight up, so the toward-eye viewer (0,1,0) looking back along
	// the reflection should produce a full specular highlight.
	p := NewPhong(0, 0, 8, vec.Black())
	hit := Hit{Normal: vec.New(0, 1, 0)}
	lightDir := vec.New(0, -1, 0)

	towardEye := vec.New(0, 1, 0)
	c := p.ComputePerLight(towardEye, hit, lightDir)
	if c.X < 0.99 {
		t.Errorf("expected near-full specular highlight with toward-eye viewer, got %v", c)
	}

	intoSurface := vec.New(0, -1, 0)
	dark := p.ComputePerLight(intoSurface, hit, lightDir)
	if !dark.IsBlack() {
		t.Errorf("expected no specular contribution with an into-surface viewer, got %v", dark)
	}
}

func TestCompoundMeanOfChildren(t *testing.T) {
	a := NewPhong(1, 0, 0, vec.White())
	b := NewPhong(0, 0, 0, vec.White())
	comp := NewCompound(a, b)

	c := comp.ComputeOnce(nil, vec.Ray{}, Hit{}, 0)
	if !c.Equals(vec.New(0.5, 0.5, 0.5)) {
		t.Errorf("Compound ComputeOnce mean = %v, want (0.5,0.5,0.5)", c)
	}
}
