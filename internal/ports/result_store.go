package ports

import (
	"context"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// Persisted outcome of planning one instance. BestObjective is meaningful
// only when Solutions is greater than zero.
type RunRecord struct {
	RunID         string
	Instance      string
	Deliveries    int
	Trips         int
	Status        string
	Solutions     int
	BestObjective float64
	ElapsedMs     int64
}

// Port: persistence boundary for planning runs and their solution pools.
type ResultStore interface {
	SaveRun(ctx context.Context, run RunRecord) error
	SaveSolutions(ctx context.Context, runID string, solutions []domain.Solution) error
	// Retrieve the stored pool for a run, ordered by solution number.
	SolutionsByRun(ctx context.Context, runID string) ([]domain.Solution, error)
}
