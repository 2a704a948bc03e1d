package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// WriteSolutionFile renders the ranked pool for one instance to
// solutions_<instance>.txt under dir and returns the file path. An empty
// pool still produces a file, so every planned instance leaves a trace.
func WriteSolutionFile(dir, instance, runID string, solutions []domain.Solution) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("solutions_%s.txt", instance))

	var b strings.Builder
	fmt.Fprintf(&b, "instance: %s\n", instance)
	fmt.Fprintf(&b, "run_id: %s\n", runID)
	fmt.Fprintf(&b, "solutions: %d\n", len(solutions))

	for i, sol := range solutions {
		fmt.Fprintf(&b, "\nsolution %d (pool #%d)\n", i+1, sol.SolutionNumber)
		fmt.Fprintf(&b, "  objective: %.4f\n", sol.Objective)
		fmt.Fprintf(&b, "  trips: %d  km: %.2f  weight: %.2f kg  volume: %.2f m3\n",
			sol.TripCount(), sol.TotalKm, sol.TotalWeight, sol.TotalVolume)
		for _, trip := range sol.Trips {
			fmt.Fprintf(&b, "  - [%s] km=%.2f weight=%.2f volume=%.2f score=%.4f\n",
				strings.Join(trip.ShipmentIDs, " "), trip.TotalKm, trip.TotalWeight, trip.TotalVolume, trip.Score)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write solution file: %w", err)
	}
	return path, nil
}

// BatchLine is one record of the append-only batch log.
type BatchLine struct {
	RunID         string
	Instance      string
	Deliveries    int
	Trips         int
	Status        string
	Solutions     int
	BestObjective float64
	Elapsed       time.Duration
}

// AppendBatchLog appends one key=value line per planned instance; the file
// accumulates across batch runs. BestObjective renders as "-" when the run
// produced no solutions.
func AppendBatchLog(path string, line BatchLine) error {
	best := "-"
	if line.Solutions > 0 {
		best = fmt.Sprintf("%.4f", line.BestObjective)
	}

	rendered := fmt.Sprintf("run_id=%s instance=%s deliveries=%d trips=%d status=%s solutions=%d best=%s elapsed_ms=%d\n",
		line.RunID, line.Instance, line.Deliveries, line.Trips, line.Status, line.Solutions, best, line.Elapsed.Milliseconds())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append batch log: open %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(rendered); err != nil {
		return fmt.Errorf("append batch log: write %q: %w", path, err)
	}
	return nil
}
