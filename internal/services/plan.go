package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/platform/obs"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Outcome of planning a single instance. Solutions is empty when the
// solver reported infeasible or timed out without an incumbent; Status
// distinguishes the two.
type PlanResult struct {
	RunID     string
	Instance  string
	TripCount int
	Status    ports.SolveStatus
	Solutions []domain.Solution
	Elapsed   time.Duration
}

// PlanInstance runs the full pipeline for one instance: enumerate feasible
// trips, build the cover model, solve it, and extract the ranked solution
// pool. Each run gets a fresh id that tags the log lines produced along
// the way.
func PlanInstance(
	ctx context.Context,
	instance domain.Instance,
	policy TripPolicy,
	controls ports.SolveControls,
	provider ports.DistanceProvider,
	solver ports.CoverSolver,
) (PlanResult, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = obs.WithRunID(ctx, runID)

	result := PlanResult{RunID: runID, Instance: instance.Name}

	trips, err := GenerateTrips(ctx, instance.Deliveries, policy, provider)
	if err != nil {
		return result, fmt.Errorf("plan instance %q: %w", instance.Name, err)
	}
	result.TripCount = len(trips)

	model, err := BuildCoverModel(trips, instance.Deliveries)
	if err != nil {
		return result, fmt.Errorf("plan instance %q: build cover model: %w", instance.Name, err)
	}

	solved, err := solver.SolveCover(ctx, model, controls)
	if err != nil {
		return result, fmt.Errorf("plan instance %q: solve cover: %w", instance.Name, err)
	}
	result.Status = solved.Status

	solutions, err := ExtractSolutions(model, trips, solved)
	if err != nil {
		return result, fmt.Errorf("plan instance %q: %w", instance.Name, err)
	}
	result.Solutions = solutions
	result.Elapsed = time.Since(start)

	return result, nil
}

// Planning outcome for one instance of a batch.
type InstanceOutcome struct {
	Instance string
	Result   PlanResult
	Err      error
}

// PlanInstances plans every instance with a bounded number of concurrent
// workers. Instances share no mutable state, so each worker only writes
// its own outcome slot. A failed instance never stops the batch; its
// outcome carries the error and the remaining instances still run.
func PlanInstances(
	ctx context.Context,
	instances []domain.Instance,
	policy TripPolicy,
	controls ports.SolveControls,
	provider ports.DistanceProvider,
	solver ports.CoverSolver,
	workers int,
) []InstanceOutcome {
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	outcomes := make([]InstanceOutcome, len(instances))
	var wg sync.WaitGroup

	for i, instance := range instances {
		wg.Add(1)
		go func(i int, instance domain.Instance) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			result, err := PlanInstance(ctx, instance, policy, controls, provider, solver)
			outcomes[i] = InstanceOutcome{Instance: instance.Name, Result: result, Err: err}
		}(i, instance)
	}

	wg.Wait()
	return outcomes
}
