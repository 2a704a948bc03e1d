package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Tunable limits for trip enumeration. Everything is an explicit parameter
// so instances with different policies can be planned concurrently.
type TripPolicy struct {
	Depot           string
	Vehicle         domain.Vehicle
	MaxBundleSize   int
	MaxWaitSlots    int
	MaxDetourRatio  float64
	Incompatibility *domain.IncompatibilitySet
}

// GenerateTrips enumerates every feasible bundle of up to MaxBundleSize
// deliveries. For each bundle size the combinations of the input are
// visited in lexicographic order, so identical inputs always produce the
// identical trip list. Checks run cheapest first: capacity, common
// departure window, wait limit, goods compatibility, and only then the
// distance lookups for the detour check. Combinations failing a check are
// skipped silently; an empty result is not an error.
//
// A trip's score is its route distance divided by the bundle size (cost
// per carried delivery), which makes the later cover objective favor
// consolidated trips over singleton runs.
func GenerateTrips(
	ctx context.Context,
	deliveries []domain.Delivery,
	policy TripPolicy,
	provider ports.DistanceProvider,
) ([]domain.Trip, error) {
	if policy.Depot == "" {
		return nil, errors.New("generate trips: depot must be non-empty")
	}
	if policy.MaxBundleSize < 1 {
		return nil, fmt.Errorf("generate trips: max bundle size %d, want >= 1", policy.MaxBundleSize)
	}
	if policy.MaxWaitSlots < 0 {
		return nil, fmt.Errorf("generate trips: max wait slots %d, want >= 0", policy.MaxWaitSlots)
	}
	if policy.MaxDetourRatio < 0 {
		return nil, fmt.Errorf("generate trips: max detour ratio %v, want >= 0", policy.MaxDetourRatio)
	}

	maxSize := policy.MaxBundleSize
	if maxSize > len(deliveries) {
		maxSize = len(deliveries)
	}

	trips := make([]domain.Trip, 0, 64)
	for size := 1; size <= maxSize; size++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate trips: %w", err)
		}

		err := eachCombination(len(deliveries), size, func(combo []int) error {
			trip, ok, err := buildTrip(ctx, deliveries, combo, policy, provider)
			if err != nil {
				return err
			}
			if ok {
				trips = append(trips, trip)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("generate trips: size %d: %w", size, err)
		}
	}

	return trips, nil
}

// Apply the feasibility checks to one combination and construct its Trip.
func buildTrip(
	ctx context.Context,
	deliveries []domain.Delivery,
	combo []int,
	policy TripPolicy,
	provider ports.DistanceProvider,
) (domain.Trip, bool, error) {
	weight, volume, ok := bundleLoad(deliveries, combo, policy.Vehicle)
	if !ok {
		return domain.Trip{}, false, nil
	}
	if !hasCommonDeparture(deliveries, combo) {
		return domain.Trip{}, false, nil
	}
	if !withinWaitLimit(deliveries, combo, policy.MaxWaitSlots) {
		return domain.Trip{}, false, nil
	}
	if !goodsCompatible(deliveries, combo, policy.Incompatibility) {
		return domain.Trip{}, false, nil
	}

	tripKm, err := tripDistance(ctx, deliveries, combo, policy.Depot, provider)
	if err != nil {
		return domain.Trip{}, false, err
	}
	directKm, err := directDistance(ctx, deliveries, combo, policy.Depot, provider)
	if err != nil {
		return domain.Trip{}, false, err
	}
	if tripKm > directKm*(1+policy.MaxDetourRatio) {
		return domain.Trip{}, false, nil
	}

	ids := make([]string, len(combo))
	for k, i := range combo {
		ids[k] = deliveries[i].ID
	}

	return domain.Trip{
		ShipmentIDs: ids,
		TotalKm:     tripKm,
		TotalWeight: weight,
		TotalVolume: volume,
		Score:       tripKm / float64(len(combo)),
	}, true, nil
}

// Sum the bundle load and verify the vehicle and per-pickup limits. A
// delivery whose own weight or volume exceeds its recorded available
// capacity poisons every bundle containing it.
func bundleLoad(deliveries []domain.Delivery, combo []int, vehicle domain.Vehicle) (weightKg, volumeM3 float64, ok bool) {
	for _, i := range combo {
		d := deliveries[i]
		if d.WeightKg > d.AvailableWeight || d.VolumeM3 > d.AvailableVolume {
			return 0, 0, false
		}
		weightKg += d.WeightKg
		volumeM3 += d.VolumeM3
	}
	if !vehicle.Fits(weightKg, volumeM3) {
		return 0, 0, false
	}
	return weightKg, volumeM3, true
}

// The latest ready slot must not pass the earliest window end, otherwise
// the bundle has no common departure interval.
func hasCommonDeparture(deliveries []domain.Delivery, combo []int) bool {
	latestReady := deliveries[combo[0]].GoodsReady
	earliestEnd := deliveries[combo[0]].Window.End
	for _, i := range combo[1:] {
		d := deliveries[i]
		if d.GoodsReady > latestReady {
			latestReady = d.GoodsReady
		}
		if d.Window.End < earliestEnd {
			earliestEnd = d.Window.End
		}
	}
	return latestReady <= earliestEnd
}

// No member may idle more than maxWaitSlots between consecutive ready
// times while the rest of the bundle becomes available.
func withinWaitLimit(deliveries []domain.Delivery, combo []int, maxWaitSlots int) bool {
	if len(combo) < 2 {
		return true
	}

	ready := make([]int, len(combo))
	for k, i := range combo {
		ready[k] = deliveries[i].GoodsReady
	}
	sort.Ints(ready)

	for k := 1; k < len(ready); k++ {
		if ready[k]-ready[k-1] > maxWaitSlots {
			return false
		}
	}
	return true
}

func goodsCompatible(deliveries []domain.Delivery, combo []int, incompat *domain.IncompatibilitySet) bool {
	if incompat.Len() == 0 {
		return true
	}
	for a := 0; a < len(combo); a++ {
		for b := a + 1; b < len(combo); b++ {
			if incompat.Forbidden(deliveries[combo[a]].GoodsType, deliveries[combo[b]].GoodsType) {
				return false
			}
		}
	}
	return true
}

// Visit every size-r combination of {0..n-1} in lexicographic order.
func eachCombination(n, r int, visit func(combo []int) error) error {
	if r > n {
		return nil
	}

	combo := make([]int, r)
	for i := range combo {
		combo[i] = i
	}

	for {
		if err := visit(combo); err != nil {
			return err
		}

		// Advance the rightmost index that has room, then reset the tail.
		i := r - 1
		for i >= 0 && combo[i] == n-r+i {
			i--
		}
		if i < 0 {
			return nil
		}
		combo[i]++
		for j := i + 1; j < r; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
}
