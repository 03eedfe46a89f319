// Package resolve turns coordinates into ISO2 country codes through an
// external reverse-geocoding capability. Resolution is best-effort:
// failures degrade to Unknown, never to an aborted validation pass.
package resolve

import "context"

// Unknown is the resolution result when the geocoder could not determine a
// country. Consumers must treat it as "no information", never as a mismatch.
const Unknown = ""

// Point is one coordinate pair submitted for reverse geocoding.
type Point struct {
	Lat float64
	Lon float64
}

// Resolver resolves a batch of points to ISO2 codes. Implementations return
// one result per input point, in order, and may fail the whole batch with an
// error; degradation policy lives in Chunked, not in implementations.
type Resolver interface {
	ResolveMany(ctx context.Context, points []Point) ([]string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, points []Point) ([]string, error)

func (f ResolverFunc) ResolveMany(ctx context.Context, points []Point) ([]string, error) {
	return f(ctx, points)
}
