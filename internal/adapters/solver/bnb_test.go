package solver

import (
	"context"
	"reflect"
	"testing"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Three deliveries A, B, C with six candidate trips. The partitions and
// their objectives: {v5}=15, {v0,v4}=18, {v3,v2}=22, {v0,v1,v2}=30.
func poolModel() domain.CoverModel {
	return domain.CoverModel{
		Costs: []float64{10, 10, 10, 12, 8, 15},
		Rows: []domain.CoverRow{
			{DeliveryID: "A", TripVars: []int{0, 3, 5}},
			{DeliveryID: "B", TripVars: []int{1, 3, 4, 5}},
			{DeliveryID: "C", TripVars: []int{2, 4, 5}},
		},
	}
}

// A forces v0, C forces v1, and both cover B, so no partition exists.
func conflictModel() domain.CoverModel {
	return domain.CoverModel{
		Costs: []float64{1, 1},
		Rows: []domain.CoverRow{
			{DeliveryID: "A", TripVars: []int{0}},
			{DeliveryID: "B", TripVars: []int{0, 1}},
			{DeliveryID: "C", TripVars: []int{1}},
		},
	}
}

func TestBranchAndBoundOptimal(t *testing.T) {
	res, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), ports.SolveControls{MaxSolutions: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != ports.StatusOptimal {
		t.Fatalf("status = %q, want optimal", res.Status)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(res.Assignments))
	}

	best := res.Assignments[0]
	if best.Objective != 15 {
		t.Errorf("objective = %v, want 15", best.Objective)
	}
	want := []float64{0, 0, 0, 0, 0, 1}
	if !reflect.DeepEqual(best.Values, want) {
		t.Errorf("values = %v, want %v", best.Values, want)
	}
}

func TestBranchAndBoundPoolOrdering(t *testing.T) {
	res, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), ports.SolveControls{MaxSolutions: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != ports.StatusOptimal {
		t.Fatalf("status = %q, want optimal", res.Status)
	}
	if len(res.Assignments) != 4 {
		t.Fatalf("expected 4 assignments, got %d", len(res.Assignments))
	}

	wantObjectives := []float64{15, 18, 22, 30}
	for i, a := range res.Assignments {
		if a.Objective != wantObjectives[i] {
			t.Errorf("assignment %d objective = %v, want %v", i, a.Objective, wantObjectives[i])
		}
	}
}

func TestBranchAndBoundPoolCap(t *testing.T) {
	res, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), ports.SolveControls{MaxSolutions: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(res.Assignments))
	}
	if res.Assignments[0].Objective != 15 || res.Assignments[1].Objective != 18 {
		t.Errorf("capped pool = [%v, %v], want [15, 18]",
			res.Assignments[0].Objective, res.Assignments[1].Objective)
	}
}

func TestBranchAndBoundRelativeGap(t *testing.T) {
	res, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), ports.SolveControls{
		MaxSolutions: 10,
		RelativeGap:  0.25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cutoff is 15 * 1.25 = 18.75, keeping only the 15 and 18 partitions.
	if len(res.Assignments) != 2 {
		t.Fatalf("expected 2 assignments inside the gap, got %d", len(res.Assignments))
	}
	if res.Assignments[1].Objective != 18 {
		t.Errorf("second objective = %v, want 18", res.Assignments[1].Objective)
	}
}

func TestBranchAndBoundInfeasible(t *testing.T) {
	res, err := NewBranchAndBound().SolveCover(context.Background(), conflictModel(), ports.SolveControls{MaxSolutions: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != ports.StatusInfeasible {
		t.Fatalf("status = %q, want infeasible", res.Status)
	}
	if len(res.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %d", len(res.Assignments))
	}
}

func TestBranchAndBoundCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewBranchAndBound().SolveCover(ctx, poolModel(), ports.SolveControls{MaxSolutions: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != ports.StatusTimeout {
		t.Fatalf("status = %q, want timeout", res.Status)
	}
	if len(res.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %d", len(res.Assignments))
	}
}

func TestBranchAndBoundDeterminism(t *testing.T) {
	controls := ports.SolveControls{MaxSolutions: 10}

	first, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), controls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewBranchAndBound().SolveCover(context.Background(), poolModel(), controls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated solves differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBranchAndBoundRejectsNegativeCost(t *testing.T) {
	model := domain.CoverModel{
		Costs: []float64{-1},
		Rows:  []domain.CoverRow{{DeliveryID: "A", TripVars: []int{0}}},
	}

	if _, err := NewBranchAndBound().SolveCover(context.Background(), model, ports.SolveControls{}); err == nil {
		t.Fatalf("expected error for negative cost")
	}
}

func TestBranchAndBoundRejectsBadVariableIndex(t *testing.T) {
	model := domain.CoverModel{
		Costs: []float64{1},
		Rows:  []domain.CoverRow{{DeliveryID: "A", TripVars: []int{3}}},
	}

	if _, err := NewBranchAndBound().SolveCover(context.Background(), model, ports.SolveControls{}); err == nil {
		t.Fatalf("expected error for out-of-range variable")
	}
}
