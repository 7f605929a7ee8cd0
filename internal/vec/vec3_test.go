package vec

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: got %v, want 32", got)
	}
	if got := a.Cross(b); !got.Equals(New(-3, 6, -3)) {
		t.Errorf("Cross: got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	v := New(3, 0, 4)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("expected unit length, got %v", n.Length())
	}
	if Black().Normalize() != (Vec3{}) {
		t.Errorf("normalizing the zero vector should return zero, not NaN")
	}
}

func TestReflect(t *testing.T) {
	// A ray hitting a flat mirror head-on along -Y should bounce straight back along +Y.
	incoming := New(0, -1, 0)
	n := New(0, 1, 0)
	r := incoming.Reflect(n)
	if !r.Equals(New(0, 1, 0)) {
		t.Errorf("Reflect: got %v, want (0,1,0)", r)
	}
}

func TestClamp(t *testing.T) {
	v := New(-0.5, 0.5, 1.5)
	got := v.Clamp(0, 1)
	if got != (Vec3{0, 0.5, 1}) {
		t.Errorf("Clamp: got %v", got)
	}
}
