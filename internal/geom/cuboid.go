package geom

import (
	"math"

	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/vec"
)

// insideEps is the slack applied when testing whether a candidate plane hit
// lies within the cuboid's bounds, accommodating floating point error at
// shared edges.
const insideEps = 1e-4

// Cuboid is an axis-aligned box defined as the intersection of six planes:
// a hit on one face only counts if the intersection point also lies within
// the other five faces' extents. Returns at most two hits, the nearest
// entering and the farthest exiting.
type Cuboid struct {
	Corner   vec.Point3 // minimum corner
	Size     vec.Vec3   // width (x), height (y), depth (z); all > 0
	Material material.Material

	planes []*Plane
}

func NewCuboid(corner vec.Point3, size vec.Vec3, mat material.Material) *Cuboid {
	c := &Cuboid{Corner: corner, Size: size, Material: mat}
	c.buildPlanes()
	return c
}

func (c *Cuboid) buildPlanes() {
	x0, y0, z0 := c.Corner.X, c.Corner.Y, c.Corner.Z
	w, h, d := c.Size.X, c.Size.Y, c.Size.Z

	fdl := vec.New(x0, y0, z0)
	ful := vec.New(x0, y0+h, z0)
	bdl := vec.New(x0, y0, z0+d)
	bdr := vec.New(x0+w, y0, z0+d)

	up, down := vec.New(0, 1, 0), vec.New(0, -1, 0)
	left, right := vec.New(-1, 0, 0), vec.New(1, 0, 0)
	forward, backward := vec.New(0, 0, 1), vec.New(0, 0, -1)

	c.planes = []*Plane{
		NewPlane(bdr, right, up, c.Material),
		NewPlane(fdl, left, up, c.Material),
		NewPlane(ful, up, forward, c.Material),
		NewPlane(fdl, down, forward, c.Material),
		NewPlane(fdl, backward, up, c.Material),
		NewPlane(bdl, forward, down, c.Material),
	}
}

// Transform rebuilds the cuboid at its corner moved by t, matching the
// original's cuboid transform (only the corner moves; the box stays axis
// aligned and keeps its original size, so only translation is geometrically
// faithful -- the same limitation the teacher lineage's cuboid carries).
func (c *Cuboid) Transform(t vec.Transform) *Cuboid {
	return NewCuboid(t.ApplyPoint(c.Corner), c.Size, c.Material)
}

func (c *Cuboid) Bounds() AABB {
	return AABB{Min: c.Corner, Max: c.Corner.Add(c.Size)}
}

func (c *Cuboid) inside(p vec.Point3) bool {
	return p.X >= c.Corner.X-insideEps && p.X <= c.Corner.X+c.Size.X+insideEps &&
		p.Y >= c.Corner.Y-insideEps && p.Y <= c.Corner.Y+c.Size.Y+insideEps &&
		p.Z >= c.Corner.Z-insideEps && p.Z <= c.Corner.Z+c.Size.Z+insideEps
}

func (c *Cuboid) Intersect(ray vec.Ray) material.HitBuffer {
	var buf material.HitBuffer
	var firstHit, backHit *material.Hit

	for _, pl := range c.planes {
		hits := pl.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if math.IsInf(h.Distance, 0) {
				continue
			}
			if !c.inside(h.Point) {
				continue
			}
			h.Material = c.Material
			if h.Entering {
				if firstHit == nil || h.Distance < firstHit.Distance {
					hc := h
					firstHit = &hc
				}
			} else {
				if backHit == nil || h.Distance > backHit.Distance {
					hc := h
					backHit = &hc
				}
			}
		}
	}

	if firstHit != nil {
		buf.Push(*firstHit)
	}
	if backHit != nil {
		buf.Push(*backHit)
	}
	return buf
}
