package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        instance TEXT NOT NULL,
        deliveries INTEGER NOT NULL,
        trips INTEGER NOT NULL,
        status TEXT NOT NULL,
        solutions INTEGER NOT NULL,
        best_objective REAL,
        elapsed_ms INTEGER NOT NULL,
        created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
	`

	createSolutionsQuery := `
	CREATE TABLE IF NOT EXISTS solutions (
        run_id TEXT NOT NULL,
        solution_number INTEGER NOT NULL,
        objective REAL NOT NULL,
        trip_count INTEGER NOT NULL,
        total_km REAL NOT NULL,
        total_weight REAL NOT NULL,
        total_volume REAL NOT NULL,
        total_score REAL NOT NULL,
        trip_indices TEXT NOT NULL,
        trips TEXT NOT NULL,
        PRIMARY KEY (run_id, solution_number)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solutions_run_objective
    ON solutions(run_id, objective);
	`

	statements := []string{
		createRunsQuery,
		createSolutionsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
