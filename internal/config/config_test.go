package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, `
solver:
  backend: maxsat
  time_limit_seconds: 60
workers: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Solver.Backend != BackendMaxSat {
		t.Errorf("backend = %q, want maxsat", cfg.Solver.Backend)
	}
	if cfg.Solver.TimeLimit() != 60*time.Second {
		t.Errorf("time limit = %v, want 60s", cfg.Solver.TimeLimit())
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Workers)
	}

	def := Default()
	if cfg.Depot != def.Depot {
		t.Errorf("depot = %q, want default %q", cfg.Depot, def.Depot)
	}
	if cfg.Limits != def.Limits {
		t.Errorf("limits = %+v, want defaults %+v", cfg.Limits, def.Limits)
	}
	if cfg.Vehicle != def.Vehicle {
		t.Errorf("vehicle = %+v, want defaults %+v", cfg.Vehicle, def.Vehicle)
	}
	if cfg.Solver.MaxSolutions != def.Solver.MaxSolutions {
		t.Errorf("max solutions = %d, want default %d", cfg.Solver.MaxSolutions, def.Solver.MaxSolutions)
	}
}

func TestLoadOverridesNestedFields(t *testing.T) {
	path := writeConfig(t, `
depot: Hub
limits:
  max_bundle_size: 3
  max_wait_slots: 1
  max_detour_ratio: 0.5
generator:
  seed: 7
  incompatible_pairs:
    - [Pharma, Chemicals]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Depot != "Hub" {
		t.Errorf("depot = %q, want Hub", cfg.Depot)
	}
	if cfg.Limits.MaxBundleSize != 3 || cfg.Limits.MaxWaitSlots != 1 || cfg.Limits.MaxDetourRatio != 0.5 {
		t.Errorf("limits = %+v, want 3/1/0.5", cfg.Limits)
	}
	if cfg.Generator.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Generator.Seed)
	}
	if len(cfg.Generator.IncompatiblePairs) != 1 || cfg.Generator.IncompatiblePairs[0][1] != "Chemicals" {
		t.Errorf("incompatible pairs = %v, want [[Pharma Chemicals]]", cfg.Generator.IncompatiblePairs)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "solver:\n  backend: cplex\n"},
		{"zero bundle size", "limits:\n  max_bundle_size: 0\n"},
		{"negative detour ratio", "limits:\n  max_detour_ratio: -0.1\n"},
		{"one-sided pair", "generator:\n  incompatible_pairs:\n    - [Pharma]\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load accepted %s", tt.name)
			}
		})
	}
}

func TestGetFallsBack(t *testing.T) {
	t.Setenv("TRUCKPOOLING_TEST_KEY", "")
	if got := Get("TRUCKPOOLING_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("Get with empty env = %q, want fallback", got)
	}

	t.Setenv("TRUCKPOOLING_TEST_KEY", "set")
	if got := Get("TRUCKPOOLING_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("Get with set env = %q, want set", got)
	}
}
