package light

import (
	"math/rand"
	"testing"

	"github.com/arcfire/phongtrace/internal/vec"
)

func TestDirectionalPointBehindCone(t *testing.T) {
	l := NewDirectionalPoint(vec.New(0, 0, 0), vec.New(0, 0, 1), vec.White())
	if _, ok := l.Direction(vec.New(0, 0, -5)); ok {
		t.Error("expected no illumination behind the cone")
	}
	if _, ok := l.Direction(vec.New(0, 0, 5)); !ok {
		t.Error("expected illumination in front of the cone")
	}
}

func TestPointLightDirectionIsNormalized(t *testing.T) {
	l := NewPoint(vec.New(0, 5, 0), vec.White())
	dir, ok := l.Direction(vec.New(3, 0, 4))
	if !ok {
		t.Fatal("point light always illuminates")
	}
	if got := dir.Length(); got < 0.999 || got > 1.001 {
		t.Errorf("direction length = %v, want 1", got)
	}
}

func TestEmitDirectionIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	l := NewPoint(vec.New(0, 0, 0), vec.White())
	for i := 0; i < 100; i++ {
		d := l.EmitDirection(rng)
		if got := d.Length(); got < 0.999 || got > 1.001 {
			t.Fatalf("EmitDirection length = %v, want 1", got)
		}
	}
}

func TestDirectionalPointEmitStaysInHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	axis := vec.New(0, 0, 1)
	l := NewDirectionalPoint(vec.New(0, 0, 0), axis, vec.White())
	for i := 0; i < 200; i++ {
		d := l.EmitDirection(rng)
		if d.Dot(axis) < 0 {
			t.Fatalf("emitted direction %v fell outside the axis hemisphere", d)
		}
	}
}
