package services

import (
	"context"
	"fmt"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Route distance through the bundle's pickups in member order, ending at
// the depot.
func tripDistance(
	ctx context.Context,
	deliveries []domain.Delivery,
	combo []int,
	depot string,
	provider ports.DistanceProvider,
) (float64, error) {
	total := 0.0
	for k := 1; k < len(combo); k++ {
		from := deliveries[combo[k-1]].PickupLocation
		to := deliveries[combo[k]].PickupLocation
		leg, err := provider.Distance(ctx, from, to)
		if err != nil {
			return 0, fmt.Errorf("trip distance: leg %q -> %q: %w", from, to, err)
		}
		total += leg
	}

	last := deliveries[combo[len(combo)-1]].PickupLocation
	leg, err := provider.Distance(ctx, last, depot)
	if err != nil {
		return 0, fmt.Errorf("trip distance: leg %q -> %q: %w", last, depot, err)
	}

	return total + leg, nil
}

// Sum of each member's individual pickup->depot distance, the baseline the
// detour check compares against.
func directDistance(
	ctx context.Context,
	deliveries []domain.Delivery,
	combo []int,
	depot string,
	provider ports.DistanceProvider,
) (float64, error) {
	total := 0.0
	for _, i := range combo {
		from := deliveries[i].PickupLocation
		leg, err := provider.Distance(ctx, from, depot)
		if err != nil {
			return 0, fmt.Errorf("direct distance: leg %q -> %q: %w", from, depot, err)
		}
		total += leg
	}
	return total, nil
}
