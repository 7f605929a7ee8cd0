package env

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/arcfire/phongtrace/internal/geom"
	"github.com/arcfire/phongtrace/internal/light"
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/photon"
	"github.com/arcfire/phongtrace/internal/rtlog"
	"github.com/arcfire/phongtrace/internal/vec"
)

// defaultWorkers is used when the caller asks for available parallelism but
// the runtime cannot determine it, per section 4.5's "fallback 4".
const defaultWorkers = 4

// gatherRadius is the lookup radius used by final gather queries against
// both the regular and caustic maps (section 4.4 step 3).
const gatherRadius = 0.1

// causticPerturbation bounds the length of the random perturbation applied
// to an existing caustic photon's direction during the caustic refinement
// pass (section 4.4 "perturbing a random existing caustic photon's
// direction by a length-0.1 uniformly-sampled vector").
const causticPerturbation = 0.1

// PhotonScene owns primitives and lights exactly like Scene, plus two
// immutable photon maps that are nil until PreRender completes. After
// PreRender the environment never mutates and is safely shared by pointer
// across tile-rendering workers.
type PhotonScene struct {
	Primitives []geom.Primitive
	Lights     []light.Light

	NumPhotons        int // N photons emitted per light in the primary pass
	NumCausticPhotons int // M photons emitted in the caustic refinement pass
	Workers           int // 0 = available parallelism, falling back to defaultWorkers
	Logger            rtlog.Logger

	regular *photon.Map
	caustic *photon.Map
}

// NewPhotonScene returns a PhotonScene ready for primitives/lights to be
// added and then PreRender to be called.
func NewPhotonScene(numPhotons, numCausticPhotons int, logger rtlog.Logger) *PhotonScene {
	if logger == nil {
		logger = rtlog.Nop{}
	}
	return &PhotonScene{NumPhotons: numPhotons, NumCausticPhotons: numCausticPhotons, Logger: logger}
}

func (p *PhotonScene) Add(pr geom.Primitive)  { p.Primitives = append(p.Primitives, pr) }
func (p *PhotonScene) AddLight(l light.Light) { p.Lights = append(p.Lights, l) }

// Regular and Caustic expose the built maps for tests and inspection tools;
// both are nil until PreRender completes.
func (p *PhotonScene) Regular() *photon.Map { return p.regular }
func (p *PhotonScene) Caustic() *photon.Map { return p.caustic }

func (p *PhotonScene) workerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return defaultWorkers
}

// PreRender runs the emission pass for every photon-capable light, then the
// caustic refinement pass, then builds the two k-d trees concurrently and
// installs them. After it returns, the scene is immutable.
func (p *PhotonScene) PreRender() {
	var all []photon.Photon

	for _, l := range p.Lights {
		pl, ok := l.(light.PhotonLight)
		if !ok {
			continue
		}
		all = append(all, p.emit(pl, p.NumPhotons)...)
	}

	causticSeeds := filterKind(all, photon.Caustic)
	all = append(all, p.refineCaustics(causticSeeds, p.NumCausticPhotons)...)

	var regular, caustic *photon.Map
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		regular = photon.Build(all)
	}()
	go func() {
		defer wg.Done()
		caustic = photon.Build(filterKind(all, photon.Caustic))
	}()
	wg.Wait()

	p.regular = regular
	p.caustic = caustic
	p.Logger.Printf("photon map ready: %d total, %d caustic", regular.Len(), caustic.Len())
}

func filterKind(photons []photon.Photon, kind photon.Kind) []photon.Photon {
	var out []photon.Photon
	for _, ph := range photons {
		if ph.Kind == kind {
			out = append(out, ph)
		}
	}
	return out
}

// emit runs N photons for light l across W worker goroutines, each with its
// own RNG seeded from its worker index; results are merged only after every
// worker has joined, so there is no shared mutable photon storage during
// emission (section 5's concurrency model).
func (p *PhotonScene) emit(l light.PhotonLight, n int) []photon.Photon {
	if n <= 0 {
		return nil
	}
	workers := p.workerCount()
	if workers > n {
		workers = n
	}
	share := n / workers
	results := make([][]photon.Photon, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		count := share
		if w == workers-1 {
			count = n - share*(workers-1) // last worker absorbs the remainder
		}
		wg.Add(1)
		go func(idx, count int) {
			defer wg.Done()
			rng := light.NewWorkerRNG(idx)
			perPhoton := l.PhotonIntensity().Scale(1 / float64(n))
			var local []photon.Photon
			for i := 0; i < count; i++ {
				dir := l.EmitDirection(rng)
				ray := vec.NewRay(l.Position(), dir)
				local = p.photonTrace(ray, perPhoton, rng, false, local)
				if idx == 0 && i%1000 == 0 {
					p.Logger.Printf("photon emission: worker 0 at %d/%d", i, count)
				}
			}
			results[idx] = local
		}(w, count)
	}
	wg.Wait()

	var all []photon.Photon
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// refineCaustics emits M additional photons by perturbing the direction of
// a randomly chosen existing caustic photon, biasing emission toward the
// refractive/specular geometry that already produced a caustic.
func (p *PhotonScene) refineCaustics(seeds []photon.Photon, m int) []photon.Photon {
	if m <= 0 || len(seeds) == 0 {
		return nil
	}
	rng := light.NewWorkerRNG(-1)
	var out []photon.Photon
	for i := 0; i < m; i++ {
		seed := seeds[rng.Intn(len(seeds))]
		perturb := vec.New(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Scale(causticPerturbation)
		dir := seed.Incident.Negate().Add(perturb).Normalize()
		ray := vec.NewRay(seed.Position, dir)
		out = p.photonTrace(ray, seed.Intensity, rng, true, out)
	}
	return out
}

// photonTrace follows spec.md section 4.4's algorithm: intersect, always
// absorb (recording a Colour or Caustic photon and a trailing Shadow ray),
// then sample one of {Diffuse, Specular, ReflectOrRefract} by Russian
// roulette and recurse, or terminate if Absorb is sampled. Landed photons
// are appended to out (caller-owned) rather than allocated fresh on every
// call.
func (p *PhotonScene) photonTrace(ray vec.Ray, intensity vec.Colour, rng *rand.Rand, fromRefractive bool, out []photon.Photon) []photon.Photon {
	hit, ok := p.nearestHit(ray)
	if !ok {
		return out
	}
	mat := hit.Material
	if mat == nil || !mat.PhotonMapped() {
		return out
	}

	kind := photon.Colour
	if fromRefractive {
		kind = photon.Caustic
	}
	stored := len(out)
	out = append(out, photon.New(hit.Point, ray.Direction, intensity, kind))
	out = p.shadowPhotons(ray, hit, out)

	w := mat.Weights()
	r := rng.Float64()
	switch {
	case r < w.Diffuse:
		dir := cosineWeightedHemisphere(rng, hit.Normal)
		outgoing := mat.BouncedPhoton(intensity, hit)
		origin := vec.Offset(hit.Point, dir, rayOffsetEps)
		return p.photonTrace(vec.NewRay(origin, dir), outgoing, rng, fromRefractive, out)

	case r < w.Diffuse+w.Specular:
		dir := ray.Direction.Reflect(hit.Normal)
		outgoing := mat.BouncedPhoton(intensity, hit)
		origin := vec.Offset(hit.Point, dir, rayOffsetEps)
		return p.photonTrace(vec.NewRay(origin, dir), outgoing, rng, fromRefractive, out)

	case r < w.Diffuse+w.Specular+w.ReflectOrRefract:
		out[stored].Kind = photon.Caustic // step 4: ReflectOrRefract always marks the stored photon Caustic
		return p.photonReflectOrRefract(ray, hit, mat, intensity, rng, out)

	default:
		return out // Absorb: no further recursion
	}
}

// shadowPhotons casts a ray continuing along the incident direction past the
// absorbing hit and records a black Shadow photon at every subsequent
// entering hit, per section 4.4 step 3.
func (p *PhotonScene) shadowPhotons(ray vec.Ray, hit material.Hit, out []photon.Photon) []photon.Photon {
	origin := vec.Offset(hit.Point, ray.Direction, rayOffsetEps)
	shadowRay := vec.NewRay(origin, ray.Direction)
	for _, prim := range p.Primitives {
		hits := prim.Intersect(shadowRay)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if h.Entering && h.Distance > 0 {
				out = append(out, photon.New(h.Point, shadowRay.Direction, vec.Black(), photon.Shadow))
			}
		}
	}
	return out
}

// photonReflectOrRefract handles the ReflectOrRefract branch: computes
// Fresnel reflectance via the material's globalLike capability (see
// fresnelOf) and picks reflection or refraction with probability
// refract_chance(k_r) from section 4.4, always continuing as a Caustic
// photon from here on.
func (p *PhotonScene) photonReflectOrRefract(ray vec.Ray, hit material.Hit, mat material.Material, intensity vec.Colour, rng *rand.Rand, out []photon.Photon) []photon.Photon {
	g, ok := findGlobalLike(mat)
	if !ok {
		dir := ray.Direction.Reflect(hit.Normal)
		origin := vec.Offset(hit.Point, dir, rayOffsetEps)
		return p.photonTrace(vec.NewRay(origin, dir), intensity, rng, true, out)
	}

	if !g.TIR(ray.Direction, hit.Normal, hit.Entering) {
		kr := g.Reflectance(ray.Direction, hit.Normal, hit.Entering)
		reflectW, refractW := 1.0, 1.0
		if gm, isGlobal := g.(*material.Global); isGlobal {
			reflectW, refractW = gm.ReflectWeight, gm.RefractWeight
		}
		chance := refractProbability(reflectW, refractW, kr)
		if rng.Float64() < chance {
			if t, _, tok := g.RefractDirection(ray.Direction, hit); tok {
				origin := vec.Offset(hit.Point, t, rayOffsetEps)
				return p.photonTrace(vec.NewRay(origin, t), intensity, rng, true, out)
			}
		}
	}
	dir := ray.Direction.Reflect(hit.Normal)
	origin := vec.Offset(hit.Point, dir, rayOffsetEps)
	return p.photonTrace(vec.NewRay(origin, dir), intensity, rng, true, out)
}

// cosineWeightedHemisphere samples a cosine-weighted direction around n,
// spec.md's own recommended diffuse sampler (section 9), in place of the
// uniform-then-negate sampler described as the source's baseline behaviour.
func cosineWeightedHemisphere(rng *rand.Rand, n vec.Vec3) vec.Vec3 {
	u1, u2 := rng.Float64(), rng.Float64()
	r := math.Sqrt(u1)
	theta := 2 * math.Pi * u2

	var a vec.Vec3
	if math.Abs(n.X) > 0.9 {
		a = vec.New(0, 1, 0)
	} else {
		a = vec.New(1, 0, 0)
	}
	v := n.Cross(a).Normalize()
	u := v.Cross(n)

	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u1))
	return u.Scale(x).Add(v.Scale(y)).Add(n.Scale(z)).Normalize()
}

func (p *PhotonScene) nearestHit(ray vec.Ray) (material.Hit, bool) {
	var best material.Hit
	found := false
	for _, prim := range p.Primitives {
		hits := prim.Intersect(ray)
		for i := 0; i < hits.Len(); i++ {
			h := hits.At(i)
			if !h.Entering || h.Distance <= 0 {
				continue
			}
			if !found || h.Distance < best.Distance {
				best = h
				found = true
			}
		}
	}
	return best, found
}

func findGlobalLike(mat material.Material) (material.FresnelCapable, bool) {
	if g, ok := mat.(material.FresnelCapable); ok {
		return g, true
	}
	if c, ok := mat.(interface {
		GlobalChild() (material.FresnelCapable, bool)
	}); ok {
		return c.GlobalChild()
	}
	return nil, false
}

// refractProbability implements refract_chance(k_r) = refract*(1-k_r) /
// (reflect*k_r + refract*(1-k_r)) from section 4.4.
func refractProbability(reflect, refract, kr float64) float64 {
	denom := reflect*kr + refract*(1-kr)
	if denom <= 0 {
		return 0
	}
	return refract * (1 - kr) / denom
}
