package ports

import (
	"context"
	"errors"
)

// Reported when a location name is missing from the distance table.
var ErrUnknownLocation = errors.New("unknown location")

// Contract for retrieving travel distance between two named locations.
// Implementations must be symmetric (a->b equals b->a) and return zero
// only when both names are equal.
type DistanceProvider interface {
	// Return travel distance in kilometers between two locations.
	Distance(ctx context.Context, origin string, destination string) (float64, error)
}
