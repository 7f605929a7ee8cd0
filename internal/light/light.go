// Package light implements the three light types: directional, point, and
// directional-point (cone). Each exposes direction/intensity queries used by
// classical ray tracing, and the photon-capable ones additionally expose an
// emission direction sampler used by the photon-mapping environment.
package light

import (
	"math"
	"math/rand"

	"github.com/arcfire/phongtrace/internal/vec"
)

// Light is the direction/intensity query contract every light satisfies.
type Light interface {
	// Direction returns the unit direction from the light toward surface,
	// and false if the surface is not illuminated (e.g. behind a cone light).
	Direction(surface vec.Point3) (vec.Vec3, bool)

	// Intensity returns the light's radiant intensity as seen from surface.
	Intensity(surface vec.Point3) vec.Colour

	// Distance returns how far the light is from surface, used as the
	// shadow ray's upper limit; a directional light has no position and
	// returns +Inf so its shadow ray is never artificially truncated.
	Distance(surface vec.Point3) float64
}

// PhotonLight is satisfied by lights that can seed photon emission.
type PhotonLight interface {
	Light

	// Position returns the point photons are emitted from.
	Position() vec.Point3

	// PhotonIntensity returns the light's total emitted intensity; the
	// emitter divides it by the photon count to get each photon's share.
	PhotonIntensity() vec.Colour

	// EmitDirection samples a random emission direction using rng, which
	// callers must supply as a worker-local random source (never shared).
	EmitDirection(rng *rand.Rand) vec.Vec3
}

// Directional is a fixed-direction, fixed-intensity light independent of
// the surface point (e.g. sunlight).
type Directional struct {
	Dir       vec.Vec3
	IntensityC vec.Colour
}

func NewDirectional(dir vec.Vec3, intensity vec.Colour) *Directional {
	return &Directional{Dir: dir.Normalize(), IntensityC: intensity}
}

func (d *Directional) Direction(vec.Point3) (vec.Vec3, bool) { return d.Dir, true }
func (d *Directional) Intensity(vec.Point3) vec.Colour       { return d.IntensityC }
func (d *Directional) Distance(vec.Point3) float64           { return math.Inf(1) }

// Point is a positional light whose direction varies per surface point but
// whose intensity does not.
type Point struct {
	Pos        vec.Point3
	IntensityC vec.Colour
}

func NewPoint(pos vec.Point3, intensity vec.Colour) *Point {
	return &Point{Pos: pos, IntensityC: intensity}
}

func (p *Point) Direction(surface vec.Point3) (vec.Vec3, bool) {
	return surface.Sub(p.Pos).Normalize(), true
}
func (p *Point) Intensity(vec.Point3) vec.Colour { return p.IntensityC }
func (p *Point) Distance(surface vec.Point3) float64 {
	return surface.Sub(p.Pos).Length()
}

func (p *Point) Position() vec.Point3          { return p.Pos }
func (p *Point) PhotonIntensity() vec.Colour   { return p.IntensityC }

// EmitDirection rejection-samples a uniformly distributed unit vector by
// drawing points in the enclosing cube until one lands in the unit ball.
func (p *Point) EmitDirection(rng *rand.Rand) vec.Vec3 {
	for {
		d := vec.New(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if d.LengthSquared() <= 1 {
			return d.Normalize()
		}
	}
}

// DirectionalPoint is a cone (spot) light: a positional light whose
// intensity falls off with the cosine of the angle from its axis, and which
// illuminates nothing behind the cone's plane.
type DirectionalPoint struct {
	Pos        vec.Point3
	Axis       vec.Vec3
	IntensityC vec.Colour
}

func NewDirectionalPoint(pos vec.Point3, axis vec.Vec3, intensity vec.Colour) *DirectionalPoint {
	return &DirectionalPoint{Pos: pos, Axis: axis.Normalize(), IntensityC: intensity}
}

func (d *DirectionalPoint) Direction(surface vec.Point3) (vec.Vec3, bool) {
	dir := surface.Sub(d.Pos)
	if dir.Dot(d.Axis) < 0 {
		return vec.Vec3{}, false
	}
	return dir.Normalize(), true
}

func (d *DirectionalPoint) Intensity(surface vec.Point3) vec.Colour {
	dir := surface.Sub(d.Pos).Normalize()
	cos := dir.Dot(d.Axis)
	return d.IntensityC.Scale(cos)
}

func (d *DirectionalPoint) Distance(surface vec.Point3) float64 {
	return surface.Sub(d.Pos).Length()
}

func (d *DirectionalPoint) Position() vec.Point3        { return d.Pos }
func (d *DirectionalPoint) PhotonIntensity() vec.Colour { return d.IntensityC }

// EmitDirection samples a random unit vector in the hemisphere around Axis.
func (d *DirectionalPoint) EmitDirection(rng *rand.Rand) vec.Vec3 {
	return randomOnHemisphere(rng, d.Axis)
}

// randomOnHemisphere draws a uniformly distributed unit vector within the
// hemisphere centred on axis, via rejection sampling a full sphere and
// flipping any sample that lands on the wrong side.
func randomOnHemisphere(rng *rand.Rand, axis vec.Vec3) vec.Vec3 {
	for {
		d := vec.New(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		l2 := d.LengthSquared()
		if l2 > 1 || l2 == 0 {
			continue
		}
		d = d.Normalize()
		if d.Dot(axis) < 0 {
			d = d.Negate()
		}
		return d
	}
}

// NewWorkerRNG seeds a deterministic, worker-local random source, matching
// the concurrency model's requirement that each worker own an independent
// RNG and that determinism, when required, derive from the worker index.
func NewWorkerRNG(workerIndex int) *rand.Rand {
	return rand.New(rand.NewSource(int64(workerIndex)*2654435761 + 1))
}
