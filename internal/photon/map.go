package photon

import (
	"sort"

	"github.com/arcfire/phongtrace/internal/vec"
)

// Map is an immutable, balanced k-d tree of photons keyed on 3D position,
// built once from a finalised photon slice. Once Build returns, queries are
// lock-free: every field below is read-only for the tree's lifetime.
type Map struct {
	nodes []kdNode
}

type kdNode struct {
	photon      Photon
	axis        int
	left, right int // indices into nodes, -1 if absent
}

// Build constructs the tree via recursive median-split on the
// longest-variance axis at each level, matching the "built once from a
// finalised photon vector" contract. An empty input yields a usable, empty
// Map rather than a nil pointer.
func Build(photons []Photon) *Map {
	m := &Map{nodes: make([]kdNode, 0, len(photons))}
	if len(photons) == 0 {
		return m
	}
	items := append([]Photon(nil), photons...)
	m.build(items)
	return m
}

// build recursively partitions items in place and appends nodes, returning
// the index of the subtree root, or -1 for an empty slice.
func (m *Map) build(items []Photon) int {
	if len(items) == 0 {
		return -1
	}
	axis := longestVarianceAxis(items)
	sort.Slice(items, func(i, j int) bool {
		return axisValue(items[i].Position, axis) < axisValue(items[j].Position, axis)
	})
	mid := len(items) / 2

	idx := len(m.nodes)
	m.nodes = append(m.nodes, kdNode{photon: items[mid], axis: axis})

	left := m.build(items[:mid])
	right := m.build(items[mid+1:])

	m.nodes[idx].left = left
	m.nodes[idx].right = right
	return idx
}

func axisValue(p vec.Point3, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// longestVarianceAxis picks the coordinate axis with the greatest spread
// among items, used to keep the tree's splits well balanced in practice.
func longestVarianceAxis(items []Photon) int {
	var minP, maxP vec.Point3
	minP, maxP = items[0].Position, items[0].Position
	for _, it := range items[1:] {
		p := it.Position
		if p.X < minP.X {
			minP.X = p.X
		}
		if p.Y < minP.Y {
			minP.Y = p.Y
		}
		if p.Z < minP.Z {
			minP.Z = p.Z
		}
		if p.X > maxP.X {
			maxP.X = p.X
		}
		if p.Y > maxP.Y {
			maxP.Y = p.Y
		}
		if p.Z > maxP.Z {
			maxP.Z = p.Z
		}
	}
	dx, dy, dz := maxP.X-minP.X, maxP.Y-minP.Y, maxP.Z-minP.Z
	if dx >= dy && dx >= dz {
		return 0
	}
	if dy >= dz {
		return 1
	}
	return 2
}

// Found pairs a photon with its squared distance to the query point, so
// callers can normalise without paying for an extra sqrt.
type Found struct {
	Photon         Photon
	SquaredDistance float64
}

// WithinRadius returns every photon within radius r of p.
func (m *Map) WithinRadius(p vec.Point3, r float64) []Found {
	if len(m.nodes) == 0 {
		return nil
	}
	var out []Found
	r2 := r * r
	m.withinRadius(0, p, r2, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].SquaredDistance < out[j].SquaredDistance })
	return out
}

func (m *Map) withinRadius(idx int, p vec.Point3, r2 float64, out *[]Found) {
	if idx < 0 {
		return
	}
	n := m.nodes[idx]
	d2 := p.Sub(n.photon.Position).LengthSquared()
	if d2 <= r2 {
		*out = append(*out, Found{Photon: n.photon, SquaredDistance: d2})
	}

	diff := axisValue(p, n.axis) - axisValue(n.photon.Position, n.axis)
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}
	m.withinRadius(near, p, r2, out)
	if diff*diff <= r2 {
		m.withinRadius(far, p, r2, out)
	}
}

// NWithinRadius returns at most n photons within radius r, nearest first.
func (m *Map) NWithinRadius(p vec.Point3, r float64, n int) []Found {
	found := m.WithinRadius(p, r)
	if len(found) > n {
		found = found[:n]
	}
	return found
}

// KNearest returns the n closest photons to p, regardless of distance.
func (m *Map) KNearest(p vec.Point3, n int) []Found {
	if len(m.nodes) == 0 || n <= 0 {
		return nil
	}
	var out []Found
	m.kNearest(0, p, n, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].SquaredDistance < out[j].SquaredDistance })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (m *Map) kNearest(idx int, p vec.Point3, n int, out *[]Found) {
	if idx < 0 {
		return
	}
	node := m.nodes[idx]
	d2 := p.Sub(node.photon.Position).LengthSquared()

	if len(*out) < n {
		*out = append(*out, Found{Photon: node.photon, SquaredDistance: d2})
	} else {
		worst := worstDistance(*out)
		if d2 < worst {
			*out = append(*out, Found{Photon: node.photon, SquaredDistance: d2})
			sort.Slice(*out, func(i, j int) bool { return (*out)[i].SquaredDistance < (*out)[j].SquaredDistance })
			*out = (*out)[:n]
		}
	}

	diff := axisValue(p, node.axis) - axisValue(node.photon.Position, node.axis)
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}
	m.kNearest(near, p, n, out)
	if len(*out) < n || diff*diff < worstDistance(*out) {
		m.kNearest(far, p, n, out)
	}
}

func worstDistance(found []Found) float64 {
	worst := 0.0
	for _, f := range found {
		if f.SquaredDistance > worst {
			worst = f.SquaredDistance
		}
	}
	return worst
}

// Len reports how many photons are stored in the tree.
func (m *Map) Len() int { return len(m.nodes) }
