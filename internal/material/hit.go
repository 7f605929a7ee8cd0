package material

import "github.com/arcfire/phongtrace/internal/vec"

// Hit records a single ray/primitive intersection event, matching the data
// model's Hit entity: it is constructed per intersection and never retained
// beyond the call that produced it (hits borrow their Material/Primitive
// references, they never own).
type Hit struct {
	Distance  float64     // ray parameter t; finite or +/-Inf for sentinel hits
	Entering  bool        // true if the ray is crossing from outside to inside
	Point     vec.Point3  // world-space intersection point
	Normal    vec.Vec3    // unit normal, against the ray when Entering, along it otherwise
	Material  Material    // shared, reference-counted material handle
	UV        vec.Vec3    // texture coordinate, Z unused; zero when not applicable
	Primitive interface{} // owning primitive handle, for CSG bookkeeping; opaque here
}

// HitCapacity bounds the inline hit buffer used by intersect() implementations
// and the CSG combinator. Simple primitives need at most 2; CSG of a few
// simple primitives needs at most 6-8 in practice. A fixed capacity avoids a
// heap allocation on every intersect call, which dominates the hot path.
const HitCapacity = 8

// HitBuffer is a small inline buffer of ordered hits, used in place of a
// slice so that intersect() does not allocate. The overflow policy (see
// Push) is: once full, the buffer silently discards hits it can no longer
// hold and Push logs a notice exactly once per process
// via the OverflowLogger hook below. Raising HitCapacity is the alternative
// policy described in the error-handling contract; discard was chosen here
// because an overflowing CSG tree is a modelling error in scene content, not
// a recoverable render condition, and a fatal panic would take down an
// entire tile worker over one degenerate ray.
type HitBuffer struct {
	hits [HitCapacity]Hit
	n    int
}

// OverflowLogger receives a one-line notice the first time any HitBuffer in
// the process overflows. nil by default (no-op); set by the environment at
// startup so overflow is visible without forcing every caller to thread a
// logger through intersect().
var OverflowLogger func(format string, args ...interface{})

var overflowLogged bool

// Push appends a hit, discarding it (and logging once) if the buffer is full.
func (b *HitBuffer) Push(h Hit) {
	if b.n >= HitCapacity {
		if !overflowLogged && OverflowLogger != nil {
			overflowLogged = true
			OverflowLogger("geom: hit buffer overflow (capacity %d), discarding farther hits", HitCapacity)
		}
		return
	}
	b.hits[b.n] = h
	b.n++
}

// Len reports how many hits are currently stored.
func (b *HitBuffer) Len() int { return b.n }

// At returns the i'th hit in insertion order.
func (b *HitBuffer) At(i int) Hit { return b.hits[i] }

// Slice returns the stored hits as a plain slice for callers (sorting, CSG
// merging) that want Go slice ergonomics; it copies out of the array.
func (b *HitBuffer) Slice() []Hit {
	return append([]Hit(nil), b.hits[:b.n]...)
}

// Append copies further hits in, respecting the same overflow policy as Push.
func (b *HitBuffer) Append(hits ...Hit) {
	for _, h := range hits {
		b.Push(h)
	}
}

// FromSlice builds a HitBuffer from a plain slice, used by the CSG
// combinator to rebuild a buffer after merging two children's streams.
func FromSlice(hits []Hit) HitBuffer {
	var b HitBuffer
	b.Append(hits...)
	return b
}
