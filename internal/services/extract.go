package services

import (
	"fmt"
	"sort"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// ExtractSolutions converts raw solver assignments back into trip
// selections with aggregated metrics. Variable values above 0.5 count as
// selected. Solution numbers record the backend's pool order before the
// batch is sorted ascending by objective, so callers can spot reorderings.
// Every assignment is verified to cover each delivery exactly once; a
// violation means the backend mishandled the model and is an error, not a
// skippable entry.
func ExtractSolutions(model domain.CoverModel, trips []domain.Trip, result ports.SolveResult) ([]domain.Solution, error) {
	if len(result.Assignments) == 0 {
		return []domain.Solution{}, nil
	}

	solutions := make([]domain.Solution, 0, len(result.Assignments))
	for n, a := range result.Assignments {
		if len(a.Values) != len(trips) {
			return nil, fmt.Errorf("extract solutions: assignment %d has %d values for %d trips", n, len(a.Values), len(trips))
		}

		s := domain.Solution{SolutionNumber: n, Objective: a.Objective}
		for v, value := range a.Values {
			if value > 0.5 {
				t := trips[v]
				s.TripIndices = append(s.TripIndices, v)
				s.Trips = append(s.Trips, t)
				s.TotalKm += t.TotalKm
				s.TotalWeight += t.TotalWeight
				s.TotalVolume += t.TotalVolume
				s.TotalScore += t.Score
			}
		}

		if err := verifyPartition(model, s); err != nil {
			return nil, fmt.Errorf("extract solutions: assignment %d: %w", n, err)
		}
		solutions = append(solutions, s)
	}

	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].Objective < solutions[j].Objective
	})

	return solutions, nil
}

// Each delivery must be covered by exactly one selected trip.
func verifyPartition(model domain.CoverModel, s domain.Solution) error {
	selected := make(map[int]bool, len(s.TripIndices))
	for _, v := range s.TripIndices {
		selected[v] = true
	}

	for _, row := range model.Rows {
		covered := 0
		for _, v := range row.TripVars {
			if selected[v] {
				covered++
			}
		}
		if covered != 1 {
			return fmt.Errorf("delivery %q covered by %d selected trips", row.DeliveryID, covered)
		}
	}
	return nil
}
