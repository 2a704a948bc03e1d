package services

import (
	"reflect"
	"testing"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

func extractFixture() (domain.CoverModel, []domain.Trip) {
	trips := []domain.Trip{
		{ShipmentIDs: []string{"D0"}, TotalKm: 20, TotalWeight: 400, TotalVolume: 1, Score: 10},
		{ShipmentIDs: []string{"D1"}, TotalKm: 16, TotalWeight: 500, TotalVolume: 2, Score: 8},
		{ShipmentIDs: []string{"D0", "D1"}, TotalKm: 30, TotalWeight: 900, TotalVolume: 3, Score: 15},
	}
	model := domain.CoverModel{
		Costs: []float64{10, 8, 15},
		Rows: []domain.CoverRow{
			{DeliveryID: "D0", TripVars: []int{0, 2}},
			{DeliveryID: "D1", TripVars: []int{1, 2}},
		},
	}
	return model, trips
}

func TestExtractSolutionsSortsAndAggregates(t *testing.T) {
	model, trips := extractFixture()
	result := ports.SolveResult{
		Status: ports.StatusOptimal,
		Assignments: []ports.Assignment{
			{Objective: 18, Values: []float64{1, 1, 0}},
			{Objective: 15, Values: []float64{0, 0, 1}},
		},
	}

	solutions, err := ExtractSolutions(model, trips, result)
	if err != nil {
		t.Fatalf("ExtractSolutions: %v", err)
	}
	if len(solutions) != 2 {
		t.Fatalf("extracted %d solutions, want 2", len(solutions))
	}

	best := solutions[0]
	if best.Objective != 15 || best.SolutionNumber != 1 {
		t.Errorf("best solution objective=%v number=%d, want 15/1", best.Objective, best.SolutionNumber)
	}
	if !reflect.DeepEqual(best.TripIndices, []int{2}) {
		t.Errorf("best trip indices = %v, want [2]", best.TripIndices)
	}
	if best.TotalKm != 30 || best.TotalWeight != 900 || best.TotalVolume != 3 || best.TotalScore != 15 {
		t.Errorf("best totals = %v/%v/%v/%v, want 30/900/3/15",
			best.TotalKm, best.TotalWeight, best.TotalVolume, best.TotalScore)
	}

	second := solutions[1]
	if second.Objective != 18 || second.SolutionNumber != 0 {
		t.Errorf("second solution objective=%v number=%d, want 18/0", second.Objective, second.SolutionNumber)
	}
	if !reflect.DeepEqual(second.TripIndices, []int{0, 1}) {
		t.Errorf("second trip indices = %v, want [0 1]", second.TripIndices)
	}
	if second.TotalKm != 36 || second.TotalScore != 18 {
		t.Errorf("second totals km=%v score=%v, want 36/18", second.TotalKm, second.TotalScore)
	}
}

func TestExtractSolutionsEmptyResult(t *testing.T) {
	model, trips := extractFixture()

	solutions, err := ExtractSolutions(model, trips, ports.SolveResult{Status: ports.StatusInfeasible})
	if err != nil {
		t.Fatalf("ExtractSolutions: %v", err)
	}
	if solutions == nil || len(solutions) != 0 {
		t.Errorf("solutions = %v, want an empty slice", solutions)
	}
}

func TestExtractSolutionsRejectsPartitionViolation(t *testing.T) {
	model, trips := extractFixture()

	// D1 is left uncovered.
	result := ports.SolveResult{
		Status:      ports.StatusOptimal,
		Assignments: []ports.Assignment{{Objective: 10, Values: []float64{1, 0, 0}}},
	}
	if _, err := ExtractSolutions(model, trips, result); err == nil {
		t.Error("ExtractSolutions accepted an assignment leaving a delivery uncovered")
	}

	// D0 is covered twice.
	result = ports.SolveResult{
		Status:      ports.StatusOptimal,
		Assignments: []ports.Assignment{{Objective: 33, Values: []float64{1, 1, 1}}},
	}
	if _, err := ExtractSolutions(model, trips, result); err == nil {
		t.Error("ExtractSolutions accepted an assignment covering a delivery twice")
	}
}

func TestExtractSolutionsRejectsLengthMismatch(t *testing.T) {
	model, trips := extractFixture()
	result := ports.SolveResult{
		Status:      ports.StatusOptimal,
		Assignments: []ports.Assignment{{Objective: 15, Values: []float64{0, 0}}},
	}

	if _, err := ExtractSolutions(model, trips, result); err == nil {
		t.Error("ExtractSolutions accepted an assignment with too few values")
	}
}
