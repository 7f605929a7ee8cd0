package geom

import (
	"math"
	"testing"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

func TestSpherePairedHitsAndOrientedNormals(t *testing.T) {
	s := NewSphere(vec.New(0, 0, 5), 1, nil)
	ray := vec.NewRay(vec.New(0, 0, 0), vec.New(0, 0, 1))

	hits := s.Intersect(ray)
	if hits.Len() != 2 {
		t.Fatalf("expected 2 hits, got %d", hits.Len())
	}
	h0, h1 := hits.At(0), hits.At(1)
	if !h0.Entering || h1.Entering {
		t.Errorf("expected entering then exiting hit, got %v, %v", h0.Entering, h1.Entering)
	}
	if h0.Distance >= h1.Distance {
		t.Errorf("entering hit must precede exiting hit: %v, %v", h0.Distance, h1.Distance)
	}
	if h0.Normal.Dot(ray.Direction) >= 0 {
		t.Errorf("entering hit normal must oppose ray direction")
	}
	if h1.Normal.Dot(ray.Direction) <= 0 {
		t.Errorf("exiting hit normal must align with ray direction")
	}
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(vec.New(10, 0, 0), 1, nil)
	ray := vec.NewRay(vec.New(0, 0, 0), vec.New(0, 0, 1))
	if s.Intersect(ray).Len() != 0 {
		t.Errorf("expected no hits for a ray missing the sphere")
	}
}

func TestCSGIdempotence(t *testing.T) {
	s := NewSphere(vec.New(0, 0, 5), 1, nil)
	ray := vec.NewRay(vec.New(0, 0, 0), vec.New(0, 0, 1))

	union := NewCSG(Union, s, s)
	uh := union.Intersect(ray)
	sh := s.Intersect(ray)
	if uh.Len() != sh.Len() {
		t.Fatalf("Union(A,A) hit count = %d, want %d", uh.Len(), sh.Len())
	}
	for i := 0; i < uh.Len(); i++ {
		if uh.At(i).Distance != sh.At(i).Distance {
			t.Errorf("Union(A,A) hit %d distance = %v, want %v", i, uh.At(i).Distance, sh.At(i).Distance)
		}
	}

	inter := NewCSG(Intersection, s, s)
	ih := inter.Intersect(ray)
	if ih.Len() != sh.Len() {
		t.Fatalf("Intersection(A,A) hit count = %d, want %d", ih.Len(), sh.Len())
	}

	diff := NewCSG(Difference, s, s)
	dh := diff.Intersect(ray)
	if dh.Len() != 0 {
		t.Errorf("Difference(A,A) must be empty, got %d hits", dh.Len())
	}
}

func TestCSGDifferenceCarvesHole(t *testing.T) {
	// A 2x2x2 cube with a sphere removed from its centre: a ray through the
	// centre should first hit the cube's near face, not the sphere's surface.
	cube := NewCuboid(vec.New(-1, -1, -1), vec.New(2, 2, 2), nil)
	sphere := NewSphere(vec.New(0, 0, 0), 0.5, nil)
	diff := NewCSG(Difference, cube, sphere)

	ray := vec.NewRay(vec.New(0, 0, -5), vec.New(0, 0, 1))
	hits := diff.Intersect(ray)
	if hits.Len() == 0 {
		t.Fatal("expected the carved cuboid to still produce hits")
	}
	// first hit should be the cuboid face at z=-1, well before the sphere's
	// surface at z=-0.5.
	if hits.At(0).Distance > 4.1 {
		t.Errorf("expected nearest hit at the cuboid face (t=4), got %v", hits.At(0).Distance)
	}
}

func TestQuadricTransformCommutesWithIntersect(t *testing.T) {
	base := NewCylinder(2, nil) // radius 1 cylinder along Z
	tr := vec.Translate(3, 0, 0)

	moved, err := base.Transform(tr)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	ray := vec.NewRay(vec.New(3, 0, -10), vec.New(0, 0, 1))
	worldHits := moved.Intersect(ray)

	localRay := tr.Inverse().ApplyRay(ray)
	localHits := base.Intersect(localRay)

	if worldHits.Len() != localHits.Len() {
		t.Fatalf("hit count mismatch: world=%d local=%d", worldHits.Len(), localHits.Len())
	}
	for i := 0; i < worldHits.Len(); i++ {
		if math.Abs(worldHits.At(i).Distance-localHits.At(i).Distance) > 1e-6 {
			t.Errorf("hit %d distance mismatch: world=%v local=%v", i, worldHits.At(i).Distance, localHits.At(i).Distance)
		}
	}
}

func TestPlaneTransformCommutesWithIntersect(t *testing.T) {
	base := NewPlane(vec.New(0, 0, 0), vec.New(0, 1, 0), vec.New(0, 0, 1), nil)
	tr := vec.Translate(0, 3, 0)

	moved, err := base.Transform(tr)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	ray := vec.NewRay(vec.New(0, 10, 0), vec.New(0, -1, 0))
	worldHits := moved.Intersect(ray)

	localRay := tr.Inverse().ApplyRay(ray)
	localHits := base.Intersect(localRay)

	if worldHits.Len() != localHits.Len() {
		t.Fatalf("hit count mismatch: world=%d local=%d", worldHits.Len(), localHits.Len())
	}
	for i := 0; i < worldHits.Len(); i++ {
		wd, ld := worldHits.At(i).Distance, localHits.At(i).Distance
		if math.IsInf(wd, 0) || math.IsInf(ld, 0) {
			continue
		}
		if math.Abs(wd-ld) > 1e-6 {
			t.Errorf("hit %d distance mismatch: world=%v local=%v", i, wd, ld)
		}
	}
}

func TestPlaneTransformRejectsNonInvertible(t *testing.T) {
	base := NewPlane(vec.New(0, 0, 0), vec.New(0, 1, 0), vec.New(0, 0, 1), nil)
	degenerate := vec.Scale3(1, 0, 1) // flattens y to zero: singular

	if _, err := base.Transform(degenerate); err == nil {
		t.Error("expected an error transforming a plane by a non-invertible matrix")
	}
}

func TestSphereTransformMovesCentre(t *testing.T) {
	s := NewSphere(vec.New(0, 0, 0), 2, nil)
	moved := s.Transform(vec.Translate(5, 0, 0))

	if !moved.Center.Equals(vec.New(5, 0, 0)) {
		t.Errorf("Transform moved centre to %v, want (5,0,0)", moved.Center)
	}
	if moved.Radius != s.Radius {
		t.Errorf("Transform must not resize the sphere, got radius %v", moved.Radius)
	}
}

func TestApplyTransformPropagatesThroughCSG(t *testing.T) {
	left := NewSphere(vec.New(0, 0, 0), 1, nil)
	right := NewSphere(vec.New(3, 0, 0), 1, nil)
	csg := NewCSG(Union, left, right)

	moved, err := ApplyTransform(csg, vec.Translate(10, 0, 0))
	if err != nil {
		t.Fatalf("ApplyTransform: %v", err)
	}
	transformed, ok := moved.(*CSG)
	if !ok {
		t.Fatalf("ApplyTransform on a CSG must return a *CSG, got %T", moved)
	}
	gotLeft, ok := transformed.Left.(*Sphere)
	if !ok {
		t.Fatalf("expected left child to remain a *Sphere, got %T", transformed.Left)
	}
	if !gotLeft.Center.Equals(vec.New(10, 0, 0)) {
		t.Errorf("left child centre = %v, want (10,0,0)", gotLeft.Center)
	}
	gotRight, ok := transformed.Right.(*Sphere)
	if !ok {
		t.Fatalf("expected right child to remain a *Sphere, got %T", transformed.Right)
	}
	if !gotRight.Center.Equals(vec.New(13, 0, 0)) {
		t.Errorf("right child centre = %v, want (13,0,0)", gotRight.Center)
	}
}

func TestHitBufferOverflowDiscardsExtra(t *testing.T) {
	var buf material.HitBuffer
	for i := 0; i < material.HitCapacity+3; i++ {
		buf.Push(material.Hit{Distance: float64(i)})
	}
	if buf.Len() != material.HitCapacity {
		t.Errorf("expected buffer to cap at %d, got %d", material.HitCapacity, buf.Len())
	}
	if buf.At(0).Distance != 0 {
		t.Errorf("expected earliest hits to be retained, not the overflow ones")
	}
}
