package geom

import (
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// CSGMode selects the boolean operation a CSG node performs over its two
// children's hit streams.
type CSGMode int

const (
	Union CSGMode = iota
	Intersection
	Difference
)

// csgAction is one of the eight outcomes of merging two ordered hit streams,
// keyed by a 3-bit state (leftEntering, rightEntering, leftBeforeRight).
type csgAction int

const (
	aEnter csgAction = iota
	aExit
	aDrop
	bEnter
	bExit
	bDrop
)

// csgTables[mode][state] gives the action fired for that merge state. State
// bit layout: bit2 = left hit is entering, bit1 = right hit is entering,
// bit0 = left.distance > right.distance.
var csgTables = [3][8]csgAction{
	Union:        {aDrop, bDrop, aExit, bDrop, aDrop, bExit, aEnter, bEnter},
	Intersection: {aExit, bExit, aDrop, bEnter, aEnter, bDrop, aDrop, bDrop},
	Difference:   {aDrop, bEnter, aExit, bExit, aDrop, bDrop, aEnter, bDrop},
}

// CSG combines two child primitives under a boolean mode by merging their
// ordered hit streams with the classical per-event action table. Transforms
// applied to a CSG node propagate to both children rather than being stored
// here.
type CSG struct {
	Mode        CSGMode
	Left, Right Primitive
}

func NewCSG(mode CSGMode, left, right Primitive) *CSG {
	return &CSG{Mode: mode, Left: left, Right: right}
}

// Transform propagates t to both children rather than storing it on the CSG
// node itself, per spec.md's "Transforms propagate to both children".
func (c *CSG) Transform(t vec.Transform) (*CSG, error) {
	left, err := ApplyTransform(c.Left, t)
	if err != nil {
		return nil, err
	}
	right, err := ApplyTransform(c.Right, t)
	if err != nil {
		return nil, err
	}
	return &CSG{Mode: c.Mode, Left: left, Right: right}, nil
}

func (c *CSG) Bounds() AABB {
	switch c.Mode {
	case Intersection:
		return intersectAABB(c.Left.Bounds(), c.Right.Bounds())
	default:
		return c.Left.Bounds().Union(c.Right.Bounds())
	}
}

func intersectAABB(a, b AABB) AABB {
	return AABB{
		Min: vec.New(max(a.Min.X, b.Min.X), max(a.Min.Y, b.Min.Y), max(a.Min.Z, b.Min.Z)),
		Max: vec.New(min(a.Max.X, b.Max.X), min(a.Max.Y, b.Max.Y), min(a.Max.Z, b.Max.Z)),
	}
}

// Intersect merges the left and right hit streams per §4.1's per-event
// table. Entering flags on emitted hits are rewritten from the action taken,
// not copied from the source hit, because Difference inverts the right
// child's sense.
func (c *CSG) Intersect(ray vec.Ray) material.HitBuffer {
	left := c.Left.Intersect(ray).Slice()
	right := c.Right.Intersect(ray).Slice()
	table := csgTables[c.Mode]

	var out []material.Hit
	li, ri := 0, 0

	for li < len(left) && ri < len(right) {
		lh, rh := left[li], right[ri]

		state := 0
		if lh.Entering {
			state += 4
		}
		if rh.Entering {
			state += 2
		}
		// On a Difference tie, an entering right hit is taken first, so a
		// surface shared by both operands is removed and Difference(A, A)
		// is empty.
		if lh.Distance > rh.Distance || (lh.Distance == rh.Distance && c.Mode == Difference && rh.Entering) {
			state += 1
		}

		switch table[state] {
		case aEnter, aExit:
			lh.Entering = table[state] == aEnter
			out = append(out, lh)
			li++
		case aDrop:
			li++
		case bEnter, bExit:
			entering := table[state] == bEnter
			if entering != rh.Entering {
				rh.Normal = rh.Normal.Negate()
			}
			rh.Entering = entering
			out = append(out, rh)
			ri++
		case bDrop:
			ri++
		}
	}

	switch c.Mode {
	case Difference:
		out = append(out, left[li:]...)
	case Union:
		out = append(out, left[li:]...)
		out = append(out, right[ri:]...)
	case Intersection:
		// remainder on either side is outside the other operand; drop it.
	}

	return material.FromSlice(out)
}
