package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/MatteoMagnani95/TruckPooling/internal/adapters/instances"
	"github.com/MatteoMagnani95/TruckPooling/internal/config"
)

// main generates the synthetic Instance_*.csv files, the distance matrix
// and the optional incompatibility table the planner consumes.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := config.Get("CONFIG_PATH", "config/planner.yaml")
	outDir := config.Get("INSTANCES_DIR", "data/instances")

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	gen := generatorConfig(cfg)
	list, table, err := instances.Generate(gen)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create instances dir %q: %v", outDir, err)
	}

	for _, instance := range list {
		path := filepath.Join(outDir, instance.Name+".csv")
		if err := instances.WriteInstanceFile(path, instance.Deliveries); err != nil {
			log.Fatal(err)
		}
	}

	if err := instances.WriteDistanceFile(filepath.Join(outDir, "distances.csv"), gen.AllLocations(), table); err != nil {
		log.Fatal(err)
	}

	if len(cfg.Generator.IncompatiblePairs) > 0 {
		pairs := make([][2]string, 0, len(cfg.Generator.IncompatiblePairs))
		for _, p := range cfg.Generator.IncompatiblePairs {
			pairs = append(pairs, [2]string{p[0], p[1]})
		}
		if err := instances.WriteIncompatibilityFile(filepath.Join(outDir, "incompatibilities.csv"), pairs); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("generated instances=%d deliveries_per_instance=%d seed=%d dir=%s",
		len(list), gen.DeliveriesPerInstance, gen.Seed, outDir)
}

// Missing config file is not an error; generation runs on defaults.
func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("No config file at %s (using defaults)", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

// The per-delivery available capacity mirrors the configured vehicle, the
// way the road-feeder data records it.
func generatorConfig(cfg config.Config) instances.GeneratorConfig {
	g := cfg.Generator
	return instances.GeneratorConfig{
		Seed:                  g.Seed,
		Instances:             g.Instances,
		DeliveriesPerInstance: g.DeliveriesPerInstance,
		GoodsTypes:            g.GoodsTypes,
		Locations:             g.Locations,
		Depot:                 cfg.Depot,
		HandlingAreas:         g.HandlingAreas,
		SlotMinutes:           g.SlotMinutes,
		BaseHour:              g.BaseHour,
		MaxReadyOffsetMin:     g.MaxReadyOffsetMin,
		MinWindowOffsetMin:    g.MinWindowOffsetMin,
		MaxWindowOffsetMin:    g.MaxWindowOffsetMin,
		WindowLengthMin:       g.WindowLengthMin,
		MinWeightKg:           g.MinWeightKg,
		MaxWeightKg:           g.MaxWeightKg,
		MinVolumeM3:           g.MinVolumeM3,
		MaxVolumeM3:           g.MaxVolumeM3,
		MinDistanceKm:         g.MinDistanceKm,
		MaxDistanceKm:         g.MaxDistanceKm,
		AvailableWeightKg:     cfg.Vehicle.CapacityKg,
		AvailableVolumeM3:     cfg.Vehicle.CapacityM3,
	}
}
