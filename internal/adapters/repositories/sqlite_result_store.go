package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// SQLite backed store for planning runs and their solution pools.
type SqliteResultStore struct {
	DB *sql.DB
}

func NewSqliteResultStore(db *sql.DB) *SqliteResultStore {
	return &SqliteResultStore{DB: db}
}

// Persist the summary record of one planning run. Saving the same run id
// again replaces the existing record.
func (s *SqliteResultStore) SaveRun(ctx context.Context, run ports.RunRecord) error {
	if s.DB == nil {
		return errors.New("result store: db is nil")
	}

	if run.RunID == "" {
		return errors.New("save run: run id must not be empty")
	}

	best := sql.NullFloat64{}
	if run.Solutions > 0 {
		best = sql.NullFloat64{Float64: run.BestObjective, Valid: true}
	}

	q := `
	INSERT OR REPLACE INTO runs (
        run_id,
        instance,
        deliveries,
        trips,
        status,
        solutions,
        best_objective,
        elapsed_ms
    )
    VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		run.RunID, run.Instance, run.Deliveries, run.Trips,
		run.Status, run.Solutions, best, run.ElapsedMs,
	); err != nil {
		return fmt.Errorf("save run run_id=%q: %w", run.RunID, err)
	}

	return nil
}

// Store the solution pool of one run.
func (s *SqliteResultStore) SaveSolutions(ctx context.Context, runID string, solutions []domain.Solution) error {
	if s.DB == nil {
		return errors.New("result store: db is nil")
	}

	if runID == "" {
		return errors.New("save solutions: run id must not be empty")
	}

	if len(solutions) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save solutions: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO solutions (
        run_id,
        solution_number,
        objective,
        trip_count,
        total_km,
        total_weight,
        total_volume,
        total_score,
        trip_indices,
        trips
    )
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save solutions: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, sol := range solutions {
		indices, err := encodeInts(sol.TripIndices)
		if err != nil {
			return fmt.Errorf("save solutions run_id=%q number=%d: %w", runID, sol.SolutionNumber, err)
		}
		trips, err := encodeTrips(sol.Trips)
		if err != nil {
			return fmt.Errorf("save solutions run_id=%q number=%d: %w", runID, sol.SolutionNumber, err)
		}

		if _, err := stmt.ExecContext(ctx,
			runID, sol.SolutionNumber, sol.Objective, sol.TripCount(),
			sol.TotalKm, sol.TotalWeight, sol.TotalVolume, sol.TotalScore,
			indices, trips,
		); err != nil {
			return fmt.Errorf("save solutions run_id=%q number=%d: %w", runID, sol.SolutionNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save solutions commit: %w", err)
	}

	return nil
}

// Load the stored pool for a run, ordered by solution number.
func (s *SqliteResultStore) SolutionsByRun(ctx context.Context, runID string) ([]domain.Solution, error) {
	if s.DB == nil {
		return nil, errors.New("result store: db is nil")
	}

	if runID == "" {
		return nil, errors.New("load solutions: run id must not be empty")
	}

	q := `
	SELECT
        solution_number,
        objective,
        trip_count,
        total_km,
        total_weight,
        total_volume,
        total_score,
        trip_indices,
        trips
    FROM solutions
    WHERE run_id = ?
    ORDER BY solution_number;
	`

	rows, err := s.DB.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("load solutions: query solutions table: %w", err)
	}
	defer rows.Close()

	var out []domain.Solution
	for rows.Next() {
		var (
			sol        domain.Solution
			tripCount  int
			rawIndices string
			rawTrips   string
		)
		if err := rows.Scan(
			&sol.SolutionNumber, &sol.Objective, &tripCount,
			&sol.TotalKm, &sol.TotalWeight, &sol.TotalVolume, &sol.TotalScore,
			&rawIndices, &rawTrips,
		); err != nil {
			return nil, fmt.Errorf("load solutions: scan rows: %w", err)
		}

		indices, err := decodeInts(rawIndices)
		if err != nil {
			return nil, fmt.Errorf("load solutions run_id=%q number=%d: %w", runID, sol.SolutionNumber, err)
		}
		trips, err := decodeTrips(rawTrips)
		if err != nil {
			return nil, fmt.Errorf("load solutions run_id=%q number=%d: %w", runID, sol.SolutionNumber, err)
		}
		if tripCount != len(trips) {
			return nil, fmt.Errorf("load solutions run_id=%q number=%d: trip_count %d does not match %d stored trips",
				runID, sol.SolutionNumber, tripCount, len(trips))
		}

		sol.TripIndices = indices
		sol.Trips = trips
		out = append(out, sol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load solutions: row iteration: %w", err)
	}

	return out, nil
}
