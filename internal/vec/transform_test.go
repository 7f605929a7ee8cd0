package vec

import "testing"

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := Translate(1, 2, 3).Mul(Scale3(2, 3, 4)).Mul(RotateY(0.7))
	inv := tr.Inverse()

	p := New(1, -2, 5)
	got := inv.ApplyPoint(tr.ApplyPoint(p))
	if !got.Equals(p) {
		t.Errorf("T^-1(T(p)) = %v, want %v", got, p)
	}
}

func TestInvertibleDetectsSingular(t *testing.T) {
	singular := FromRows([4][4]float64{
		{1, 2, 3, 0},
		{2, 4, 6, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
	if singular.Invertible() {
		t.Error("expected singular matrix to be reported non-invertible")
	}
	if Identity().Invertible() != true {
		t.Error("identity must be invertible")
	}
}

func TestTransformRayRoundTrip(t *testing.T) {
	// Applying T to a ray and intersecting in local space should be
	// equivalent to applying T^-1 to the ray in world space (property 4
	// from spec.md §8), exercised indirectly through geometry package tests;
	// this test only pins the algebraic identity T(T^-1(r)) == r.
	tr := Translate(5, 0, 0).Mul(RotateZ(0.3))
	r := Ray{Origin: New(0, 0, 0), Direction: New(0, 0, 1)}
	back := tr.ApplyRay(tr.Inverse().ApplyRay(r))
	if !back.Origin.Equals(r.Origin) || !back.Direction.Equals(r.Direction) {
		t.Errorf("ray roundtrip mismatch: got %+v, want %+v", back, r)
	}
}
