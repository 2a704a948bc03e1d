package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/MatteoMagnani95/TruckPooling/internal/adapters/distance"
	"github.com/MatteoMagnani95/TruckPooling/internal/adapters/instances"
	"github.com/MatteoMagnani95/TruckPooling/internal/adapters/repositories"
	"github.com/MatteoMagnani95/TruckPooling/internal/adapters/solver"
	"github.com/MatteoMagnani95/TruckPooling/internal/config"
	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/platform/db"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
	"github.com/MatteoMagnani95/TruckPooling/internal/report"
	"github.com/MatteoMagnani95/TruckPooling/internal/services"
)

// main is the batch planner composition root. It wires the CSV instance
// source, the distance table and the configured solver backend behind
// ports, plans every instance, and writes the solution files, the batch
// log and the result store. A failed instance is logged and skipped; only
// setup errors abort the run.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := config.Get("CONFIG_PATH", "config/planner.yaml")
	instancesDir := config.Get("INSTANCES_DIR", "data/instances")
	outputDir := config.Get("OUTPUT_DIR", "data/output")
	dbPath := config.Get("DB_PATH", "data/results.db")
	matrixPath := config.Get("DISTANCES_PATH", filepath.Join(instancesDir, "distances.csv"))
	incompatPath := config.Get("INCOMPATIBILITIES_PATH", filepath.Join(instancesDir, "incompatibilities.csv"))
	batchLogPath := config.Get("BATCH_LOG_PATH", filepath.Join(outputDir, "planner_log.txt"))

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	list, err := instances.NewCSVSource(instancesDir).ListInstances(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(list) == 0 {
		log.Fatalf("no Instance_*.csv files under %s", instancesDir)
	}

	table, err := distance.LoadTableCSV(matrixPath)
	if err != nil {
		log.Fatal(err)
	}
	provider, err := distance.NewTableProvider(table)
	if err != nil {
		log.Fatal(err)
	}

	policy := services.TripPolicy{
		Depot:          cfg.Depot,
		Vehicle:        domain.Vehicle{CapacityKg: cfg.Vehicle.CapacityKg, CapacityM3: cfg.Vehicle.CapacityM3},
		MaxBundleSize:  cfg.Limits.MaxBundleSize,
		MaxWaitSlots:   cfg.Limits.MaxWaitSlots,
		MaxDetourRatio: cfg.Limits.MaxDetourRatio,
	}
	if _, err := os.Stat(incompatPath); err == nil {
		set, err := instances.ReadIncompatibilityFile(incompatPath)
		if err != nil {
			log.Fatal(err)
		}
		policy.Incompatibility = set
		log.Printf("loaded incompatibilities path=%s pairs=%d", incompatPath, set.Len())
	}

	controls := ports.SolveControls{
		TimeLimit:    cfg.Solver.TimeLimit(),
		MaxSolutions: cfg.Solver.MaxSolutions,
		RelativeGap:  cfg.Solver.RelativeGap,
	}
	backend, err := newSolver(cfg.Solver.Backend)
	if err != nil {
		log.Fatal(err)
	}

	store, conn, err := openResultStore(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("create output dir %q: %v", outputDir, err)
	}

	log.Printf("planning instances=%d backend=%s workers=%d time_limit=%s",
		len(list), cfg.Solver.Backend, cfg.Workers, controls.TimeLimit)

	outcomes := services.PlanInstances(ctx, list, policy, controls, provider, backend, cfg.Workers)

	failed := 0
	for i, oc := range outcomes {
		if oc.Err != nil {
			failed++
			log.Printf("plan failed instance=%s err=%v", oc.Instance, oc.Err)
			continue
		}

		r := oc.Result
		best := 0.0
		if len(r.Solutions) > 0 {
			best = r.Solutions[0].Objective
		}
		log.Printf("planned instance=%s run_id=%s trips=%d status=%s solutions=%d best=%v elapsed_ms=%d",
			r.Instance, r.RunID, r.TripCount, r.Status, len(r.Solutions), best, r.Elapsed.Milliseconds())

		if _, err := report.WriteSolutionFile(outputDir, r.Instance, r.RunID, r.Solutions); err != nil {
			log.Printf("write solution file instance=%s err=%v", r.Instance, err)
		}
		if err := report.AppendBatchLog(batchLogPath, report.BatchLine{
			RunID:         r.RunID,
			Instance:      r.Instance,
			Deliveries:    len(list[i].Deliveries),
			Trips:         r.TripCount,
			Status:        string(r.Status),
			Solutions:     len(r.Solutions),
			BestObjective: best,
			Elapsed:       r.Elapsed,
		}); err != nil {
			log.Printf("append batch log instance=%s err=%v", r.Instance, err)
		}

		run := ports.RunRecord{
			RunID:         r.RunID,
			Instance:      r.Instance,
			Deliveries:    len(list[i].Deliveries),
			Trips:         r.TripCount,
			Status:        string(r.Status),
			Solutions:     len(r.Solutions),
			BestObjective: best,
			ElapsedMs:     r.Elapsed.Milliseconds(),
		}
		if err := store.SaveRun(ctx, run); err != nil {
			log.Printf("save run instance=%s err=%v", r.Instance, err)
		} else if err := store.SaveSolutions(ctx, r.RunID, r.Solutions); err != nil {
			log.Printf("save solutions instance=%s err=%v", r.Instance, err)
		}
	}

	log.Printf("batch complete instances=%d planned=%d failed=%d output=%s",
		len(outcomes), len(outcomes)-failed, failed, outputDir)
}

// Missing config file is not an error; the planner runs on defaults.
func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("No config file at %s (using defaults)", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

func newSolver(backend string) (ports.CoverSolver, error) {
	switch backend {
	case config.BackendBranchAndBound:
		return solver.NewBranchAndBound(), nil
	case config.BackendMaxSat:
		return solver.NewMaxSat(), nil
	}
	return nil, fmt.Errorf("unknown solver backend %q", backend)
}

// Postgres when DATABASE_URL is set, the local SQLite file otherwise.
func openResultStore(dbPath string) (ports.ResultStore, *sql.DB, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSQLSchema(pg); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return repositories.NewSQLResultStore(pg), pg, nil
	}

	sq, err := openDB(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(sq); err != nil {
		sq.Close()
		return nil, nil, err
	}
	return repositories.NewSqliteResultStore(sq), sq, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create db dir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
