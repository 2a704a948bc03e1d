package ports

import (
	"context"
	"time"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// Controls passed through to the optimization backend. TimeLimit is the
// wall-clock budget for one solve and is the pipeline's only cancellation
// boundary; MaxSolutions bounds the near-optimal pool; RelativeGap, when
// positive, drops pool entries whose objective exceeds the best found by
// more than that fraction.
type SolveControls struct {
	TimeLimit    time.Duration
	MaxSolutions int
	RelativeGap  float64
}

type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"
	StatusFeasible   SolveStatus = "feasible"
	StatusInfeasible SolveStatus = "infeasible"
	StatusTimeout    SolveStatus = "timeout"
)

// A single assignment returned by the solver: one value per trip variable.
// Values are nominally binary; callers must treat anything above 0.5 as
// selected to absorb numerical slack.
type Assignment struct {
	Objective float64
	Values    []float64
}

// Outcome of one solve. Assignments are in backend order, which carries no
// ranking guarantee; callers sort by objective themselves. Statuses:
// optimal means the search completed, feasible means the time limit cut it
// short with at least one assignment in hand, infeasible means no
// assignment satisfies the constraints, timeout means the limit expired
// with nothing found.
type SolveResult struct {
	Status      SolveStatus
	Assignments []Assignment
}

// Port: exact-cover optimization capability (binary variables, equality
// coverage constraints, linear minimization objective).
type CoverSolver interface {
	SolveCover(ctx context.Context, model domain.CoverModel, controls SolveControls) (SolveResult, error)
}
