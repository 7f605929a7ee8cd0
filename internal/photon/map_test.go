package photon

import (
	"testing"

	"github.com/arcfire/phongtrace/internal/vec"
)

func samplePhotons() []Photon {
	return []Photon{
		New(vec.New(0, 0, 0), vec.New(0, 0, 1), vec.White(), Colour),
		New(vec.New(1, 0, 0), vec.New(0, 0, 1), vec.White(), Colour),
		New(vec.New(0, 1, 0), vec.New(0, 0, 1), vec.White(), Colour),
		New(vec.New(5, 5, 5), vec.New(0, 0, 1), vec.White(), Colour),
	}
}

func TestBuildEmpty(t *testing.T) {
	m := Build(nil)
	if m.Len() != 0 {
		t.Errorf("expected empty tree, got %d nodes", m.Len())
	}
	if got := m.WithinRadius(vec.New(0, 0, 0), 1); len(got) != 0 {
		t.Errorf("expected no results from an empty tree, got %d", len(got))
	}
}

func TestWithinRadiusFindsNearbyOnly(t *testing.T) {
	m := Build(samplePhotons())
	found := m.WithinRadius(vec.New(0, 0, 0), 1.5)
	if len(found) != 3 {
		t.Fatalf("expected 3 photons within radius, got %d", len(found))
	}
	for i := 1; i < len(found); i++ {
		if found[i-1].SquaredDistance > found[i].SquaredDistance {
			t.Errorf("results not sorted by distance: %v", found)
		}
	}
}

func TestKNearestReturnsClosest(t *testing.T) {
	m := Build(samplePhotons())
	found := m.KNearest(vec.New(0, 0, 0), 2)
	if len(found) != 2 {
		t.Fatalf("expected 2 results, got %d", len(found))
	}
	if found[0].SquaredDistance != 0 {
		t.Errorf("expected the exact match first, got distance %v", found[0].SquaredDistance)
	}
}

func TestNWithinRadiusTruncates(t *testing.T) {
	m := Build(samplePhotons())
	found := m.NWithinRadius(vec.New(0, 0, 0), 10, 1)
	if len(found) != 1 {
		t.Errorf("expected truncation to 1 result, got %d", len(found))
	}
}
