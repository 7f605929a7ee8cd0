// Package photon implements the photon data type and the hand-written
// k-d tree spatial index used by the photon-mapping environment. No
// third-party k-d tree crate is available in the Go ecosystem surveyed for
// this module, so the tree below is a direct port of the median-split,
// build-once-query-many structure described by the data model.
package photon

import "github.com/arcfire/phongtrace/internal/vec"

// Kind classifies what a landed photon represents.
type Kind int

const (
	Colour Kind = iota
	Shadow
	Caustic
	View
)

// Photon is a landed photon: an immutable record of where light arrived,
// from which direction, carrying how much energy.
type Photon struct {
	Position  vec.Point3
	Incident  vec.Vec3 // unit direction the photon was travelling when it landed
	Intensity vec.Colour
	Kind      Kind
}

func New(position vec.Point3, incident vec.Vec3, intensity vec.Colour, kind Kind) Photon {
	return Photon{Position: position, Incident: incident, Intensity: intensity, Kind: kind}
}
