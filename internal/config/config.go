package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the value of an environment variable, or fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Config drives a planning run. Fields left out of the YAML file keep
// their Default values.
type Config struct {
	Depot     string          `yaml:"depot"`
	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Limits    LimitsConfig    `yaml:"limits"`
	Solver    SolverConfig    `yaml:"solver"`
	Workers   int             `yaml:"workers"`
	Generator GeneratorConfig `yaml:"generator"`
}

type VehicleConfig struct {
	CapacityKg float64 `yaml:"capacity_kg"`
	CapacityM3 float64 `yaml:"capacity_m3"`
}

// Feasibility limits applied while bundling deliveries into trips.
type LimitsConfig struct {
	MaxBundleSize  int     `yaml:"max_bundle_size"`
	MaxWaitSlots   int     `yaml:"max_wait_slots"`
	MaxDetourRatio float64 `yaml:"max_detour_ratio"`
}

type SolverConfig struct {
	Backend          string  `yaml:"backend"`
	TimeLimitSeconds int     `yaml:"time_limit_seconds"`
	MaxSolutions     int     `yaml:"max_solutions"`
	RelativeGap      float64 `yaml:"relative_gap"`
}

func (s SolverConfig) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds) * time.Second
}

// GeneratorConfig shapes synthetic instance generation. Offsets and
// lengths are minutes; each incompatible pair must list exactly two goods
// types.
type GeneratorConfig struct {
	Seed                  int64      `yaml:"seed"`
	Instances             int        `yaml:"instances"`
	DeliveriesPerInstance int        `yaml:"deliveries_per_instance"`
	GoodsTypes            []string   `yaml:"goods_types"`
	Locations             []string   `yaml:"locations"`
	HandlingAreas         int        `yaml:"handling_areas"`
	SlotMinutes           int        `yaml:"slot_minutes"`
	BaseHour              int        `yaml:"base_hour"`
	MaxReadyOffsetMin     int        `yaml:"max_ready_offset_min"`
	MinWindowOffsetMin    int        `yaml:"min_window_offset_min"`
	MaxWindowOffsetMin    int        `yaml:"max_window_offset_min"`
	WindowLengthMin       int        `yaml:"window_length_min"`
	MinWeightKg           float64    `yaml:"min_weight_kg"`
	MaxWeightKg           float64    `yaml:"max_weight_kg"`
	MinVolumeM3           float64    `yaml:"min_volume_m3"`
	MaxVolumeM3           float64    `yaml:"max_volume_m3"`
	MinDistanceKm         int        `yaml:"min_distance_km"`
	MaxDistanceKm         int        `yaml:"max_distance_km"`
	IncompatiblePairs     [][]string `yaml:"incompatible_pairs"`
}

const (
	BackendBranchAndBound = "bnb"
	BackendMaxSat         = "maxsat"
)

// Default returns the configuration the planner ships with: the Malpensa
// road-feeder setup and the exact branch-and-bound backend.
func Default() Config {
	return Config{
		Depot:   "Mpx",
		Vehicle: VehicleConfig{CapacityKg: 4000, CapacityM3: 15},
		Limits:  LimitsConfig{MaxBundleSize: 5, MaxWaitSlots: 2, MaxDetourRatio: 0.2},
		Solver:  SolverConfig{Backend: BackendBranchAndBound, TimeLimitSeconds: 3600, MaxSolutions: 100},
		Workers: 4,
		Generator: GeneratorConfig{
			Seed:                  12345,
			Instances:             10,
			DeliveriesPerInstance: 5,
			GoodsTypes:            []string{"Pharma"},
			Locations:             []string{"Linate", "Bergamo", "Piacenza", "Varese"},
			HandlingAreas:         3,
			SlotMinutes:           15,
			BaseHour:              8,
			MaxReadyOffsetMin:     120,
			MinWindowOffsetMin:    30,
			MaxWindowOffsetMin:    90,
			WindowLengthMin:       60,
			MinWeightKg:           200,
			MaxWeightKg:           1000,
			MinVolumeM3:           0.5,
			MaxVolumeM3:           3,
			MinDistanceKm:         10,
			MaxDistanceKm:         100,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %q: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Depot == "" {
		return fmt.Errorf("depot must not be empty")
	}
	if c.Vehicle.CapacityKg <= 0 || c.Vehicle.CapacityM3 <= 0 {
		return fmt.Errorf("vehicle capacity %v kg / %v m3 is invalid", c.Vehicle.CapacityKg, c.Vehicle.CapacityM3)
	}
	if c.Limits.MaxBundleSize < 1 {
		return fmt.Errorf("max_bundle_size must be >= 1, got %d", c.Limits.MaxBundleSize)
	}
	if c.Limits.MaxWaitSlots < 0 {
		return fmt.Errorf("max_wait_slots must be >= 0, got %d", c.Limits.MaxWaitSlots)
	}
	if c.Limits.MaxDetourRatio < 0 {
		return fmt.Errorf("max_detour_ratio must be >= 0, got %v", c.Limits.MaxDetourRatio)
	}
	if c.Solver.Backend != BackendBranchAndBound && c.Solver.Backend != BackendMaxSat {
		return fmt.Errorf("unknown solver backend %q", c.Solver.Backend)
	}
	if c.Solver.TimeLimitSeconds < 1 {
		return fmt.Errorf("time_limit_seconds must be >= 1, got %d", c.Solver.TimeLimitSeconds)
	}
	if c.Solver.MaxSolutions < 1 {
		return fmt.Errorf("max_solutions must be >= 1, got %d", c.Solver.MaxSolutions)
	}
	if c.Solver.RelativeGap < 0 {
		return fmt.Errorf("relative_gap must be >= 0, got %v", c.Solver.RelativeGap)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	for i, pair := range c.Generator.IncompatiblePairs {
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			return fmt.Errorf("incompatible_pairs[%d] must list exactly two goods types", i)
		}
	}
	return nil
}
