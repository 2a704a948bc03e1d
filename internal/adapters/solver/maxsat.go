package solver

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/crillab/gophersat/maxsat"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/platform/obs"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Weighted partial MaxSAT backend built on gophersat. One Boolean variable
// per trip; each delivery row contributes a hard at-least-one clause over
// its covering trips plus pairwise at-most-one clauses, and every trip's
// score becomes a weighted soft clause against selecting it, scaled to
// integer milli-score units. The backend reports the single best
// assignment, so the pool size control is effectively capped at one here;
// callers wanting a real pool use the branch-and-bound backend.
type MaxSat struct{}

func NewMaxSat() *MaxSat { return &MaxSat{} }

// Soft-clause weights are integers, so fractional scores are rounded at
// this resolution.
const scoreScale = 1000

func (m *MaxSat) SolveCover(
	ctx context.Context,
	model domain.CoverModel,
	controls ports.SolveControls,
) (_ ports.SolveResult, err error) {
	defer obs.Time(ctx, "solver.maxsat.solve")(&err)

	if err := validateModel(model); err != nil {
		return ports.SolveResult{}, fmt.Errorf("maxsat solve: %w", err)
	}

	// A row with no candidate trips can never be covered; gophersat would
	// only report the same thing after encoding.
	for _, row := range model.Rows {
		if len(row.TripVars) == 0 {
			return ports.SolveResult{Status: ports.StatusInfeasible}, nil
		}
	}

	constrs := make([]maxsat.Constr, 0, 2*len(model.Rows)+len(model.Costs))
	for _, row := range model.Rows {
		lits := make([]maxsat.Lit, 0, len(row.TripVars))
		for _, v := range row.TripVars {
			lits = append(lits, maxsat.Var(varName(v)))
		}
		constrs = append(constrs, maxsat.HardClause(lits...))

		for a := 0; a < len(row.TripVars); a++ {
			for b := a + 1; b < len(row.TripVars); b++ {
				constrs = append(constrs, maxsat.HardClause(
					maxsat.Not(varName(row.TripVars[a])),
					maxsat.Not(varName(row.TripVars[b])),
				))
			}
		}
	}

	for v, cost := range model.Costs {
		weight := int(math.Round(cost * scoreScale))
		if weight <= 0 {
			continue
		}
		constrs = append(constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Not(varName(v))}, weight))
	}

	problem := maxsat.New(constrs...)

	timeLimit := controls.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}

	type outcome struct {
		model map[string]bool
		cost  int
	}

	resultCh := make(chan outcome, 1)
	go func() {
		solved, cost := problem.Solve()
		resultCh <- outcome{model: solved, cost: cost}
	}()

	timer := time.NewTimer(timeLimit)
	defer timer.Stop()

	// gophersat offers no preemption hook, so on timeout the solve
	// goroutine is abandoned and finishes into the buffered channel.
	select {
	case <-ctx.Done():
		return ports.SolveResult{Status: ports.StatusTimeout}, nil
	case <-timer.C:
		return ports.SolveResult{Status: ports.StatusTimeout}, nil
	case out := <-resultCh:
		if out.model == nil {
			return ports.SolveResult{Status: ports.StatusInfeasible}, nil
		}

		values := make([]float64, len(model.Costs))
		objective := 0.0
		for v := range model.Costs {
			if out.model[varName(v)] {
				values[v] = 1
				objective += model.Costs[v]
			}
		}

		return ports.SolveResult{
			Status:      ports.StatusOptimal,
			Assignments: []ports.Assignment{{Objective: objective, Values: values}},
		}, nil
	}
}

func varName(v int) string { return "x" + strconv.Itoa(v) }
