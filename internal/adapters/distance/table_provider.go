package distance

import (
	"context"
	"fmt"
	"sort"

	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// In-memory symmetric distance table keyed by location-name pairs. The
// table is immutable after construction, so lookups are safe for concurrent
// use across planning workers.
type TableProvider struct {
	km        map[string]float64
	locations map[string]struct{}
}

// Build a provider from a nested location->location->km table. The table
// must be square, symmetric, nonnegative and zero on the diagonal; every
// location present as a row must appear in every other row's columns.
func NewTableProvider(table map[string]map[string]float64) (*TableProvider, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("distance table: table must not be empty")
	}

	locations := make(map[string]struct{}, len(table))
	for loc := range table {
		locations[loc] = struct{}{}
	}

	km := make(map[string]float64, len(table)*len(table)/2)
	for a, row := range table {
		for b := range locations {
			d, ok := row[b]
			if !ok {
				return nil, fmt.Errorf("distance table: missing entry %q -> %q", a, b)
			}
			if d < 0 {
				return nil, fmt.Errorf("distance table: negative distance %v for %q -> %q", d, a, b)
			}
			if a == b && d != 0 {
				return nil, fmt.Errorf("distance table: diagonal entry for %q is %v, want 0", a, d)
			}
			back, ok := table[b][a]
			if !ok || back != d {
				return nil, fmt.Errorf("distance table: asymmetric pair %q / %q: %v vs %v", a, b, d, back)
			}
			km[pairKey(a, b)] = d
		}
	}

	return &TableProvider{km: km, locations: locations}, nil
}

// Return travel distance in kilometers between two locations.
func (p *TableProvider) Distance(_ context.Context, origin, destination string) (float64, error) {
	if _, ok := p.locations[origin]; !ok {
		return 0, fmt.Errorf("distance table: %q: %w", origin, ports.ErrUnknownLocation)
	}
	if _, ok := p.locations[destination]; !ok {
		return 0, fmt.Errorf("distance table: %q: %w", destination, ports.ErrUnknownLocation)
	}
	if origin == destination {
		return 0, nil
	}

	return p.km[pairKey(origin, destination)], nil
}

// Locations returns every known location name in sorted order.
func (p *TableProvider) Locations() []string {
	out := make([]string, 0, len(p.locations))
	for loc := range p.locations {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Distances are symmetric, so pairs are stored under a normalized key.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
