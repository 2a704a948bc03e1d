package repositories

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"

	_ "modernc.org/sqlite"
)

// Every connection to :memory: gets its own database, so the pool is
// pinned to a single connection.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func sampleSolutions() []domain.Solution {
	return []domain.Solution{
		{
			SolutionNumber: 0,
			Objective:      15,
			TripIndices:    []int{5},
			Trips: []domain.Trip{
				{ShipmentIDs: []string{"D0", "D1", "D2"}, TotalKm: 45, TotalWeight: 1200, TotalVolume: 4.5, Score: 15},
			},
			TotalKm:     45,
			TotalWeight: 1200,
			TotalVolume: 4.5,
			TotalScore:  15,
		},
		{
			SolutionNumber: 1,
			Objective:      18,
			TripIndices:    []int{0, 4},
			Trips: []domain.Trip{
				{ShipmentIDs: []string{"D0"}, TotalKm: 10, TotalWeight: 400, TotalVolume: 1.5, Score: 10},
				{ShipmentIDs: []string{"D1", "D2"}, TotalKm: 16, TotalWeight: 800, TotalVolume: 3, Score: 8},
			},
			TotalKm:     26,
			TotalWeight: 1200,
			TotalVolume: 4.5,
			TotalScore:  18,
		},
	}
}

func TestSqliteResultStoreRoundTrip(t *testing.T) {
	store := NewSqliteResultStore(openTestDB(t))
	ctx := context.Background()

	run := ports.RunRecord{
		RunID:         "run-1",
		Instance:      "Instance_1",
		Deliveries:    3,
		Trips:         6,
		Status:        "optimal",
		Solutions:     2,
		BestObjective: 15,
		ElapsedMs:     42,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	want := sampleSolutions()
	if err := store.SaveSolutions(ctx, run.RunID, want); err != nil {
		t.Fatalf("SaveSolutions: %v", err)
	}

	got, err := store.SolutionsByRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("SolutionsByRun: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("solutions differ after round trip:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSqliteResultStoreReplacesRun(t *testing.T) {
	db := openTestDB(t)
	store := NewSqliteResultStore(db)
	ctx := context.Background()

	run := ports.RunRecord{RunID: "run-1", Instance: "Instance_1", Status: "timeout"}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun (first): %v", err)
	}

	run.Status = "optimal"
	run.Solutions = 1
	run.BestObjective = 20
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun (second): %v", err)
	}

	var count int
	var status string
	if err := db.QueryRow(`SELECT COUNT(*), MAX(status) FROM runs`).Scan(&count, &status); err != nil {
		t.Fatalf("query runs: %v", err)
	}
	if count != 1 {
		t.Errorf("runs table has %d rows, want 1", count)
	}
	if status != "optimal" {
		t.Errorf("stored status = %q, want optimal", status)
	}
}

func TestSqliteResultStoreNullBestObjective(t *testing.T) {
	db := openTestDB(t)
	store := NewSqliteResultStore(db)

	run := ports.RunRecord{RunID: "run-1", Instance: "Instance_1", Status: "infeasible", Solutions: 0}
	if err := store.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	var best sql.NullFloat64
	if err := db.QueryRow(`SELECT best_objective FROM runs WHERE run_id = ?`, run.RunID).Scan(&best); err != nil {
		t.Fatalf("query best_objective: %v", err)
	}
	if best.Valid {
		t.Errorf("best_objective = %v, want NULL for a run without solutions", best.Float64)
	}
}

func TestSqliteResultStoreRejectsEmptyRunID(t *testing.T) {
	store := NewSqliteResultStore(openTestDB(t))
	ctx := context.Background()

	if err := store.SaveRun(ctx, ports.RunRecord{}); err == nil {
		t.Error("SaveRun accepted an empty run id")
	}
	if err := store.SaveSolutions(ctx, "", sampleSolutions()); err == nil {
		t.Error("SaveSolutions accepted an empty run id")
	}
	if _, err := store.SolutionsByRun(ctx, ""); err == nil {
		t.Error("SolutionsByRun accepted an empty run id")
	}
}

func TestSqliteResultStoreEmptyPool(t *testing.T) {
	store := NewSqliteResultStore(openTestDB(t))
	ctx := context.Background()

	if err := store.SaveSolutions(ctx, "run-1", nil); err != nil {
		t.Fatalf("SaveSolutions with empty pool: %v", err)
	}
	got, err := store.SolutionsByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("SolutionsByRun: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("loaded %d solutions, want 0", len(got))
	}
}
