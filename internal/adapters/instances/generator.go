package instances

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// GeneratorConfig drives synthetic instance generation. Offsets and
// lengths are minutes and get converted to slots of SlotMinutes; the
// planning day starts at BaseHour.
type GeneratorConfig struct {
	Seed                  int64
	Instances             int
	DeliveriesPerInstance int
	GoodsTypes            []string
	Locations             []string
	Depot                 string
	HandlingAreas         int
	SlotMinutes           int
	BaseHour              int
	MaxReadyOffsetMin     int
	MinWindowOffsetMin    int
	MaxWindowOffsetMin    int
	WindowLengthMin       int
	MinWeightKg           float64
	MaxWeightKg           float64
	MinVolumeM3           float64
	MaxVolumeM3           float64
	MinDistanceKm         int
	MaxDistanceKm         int
	AvailableWeightKg     float64
	AvailableVolumeM3     float64
}

// DefaultGeneratorConfig models a Malpensa road-feeder day: four origin
// airports, one depot, pharma shipments readied through the morning.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:                  12345,
		Instances:             10,
		DeliveriesPerInstance: 5,
		GoodsTypes:            []string{"Pharma"},
		Locations:             []string{"Linate", "Bergamo", "Piacenza", "Varese"},
		Depot:                 "Mpx",
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
		AvailableWeightKg:     4000,
		AvailableVolumeM3:     15,
	}
}

// Generate produces the problem instances and a symmetric distance table
// over the configured locations plus the depot. The same configuration
// always yields the same data.
func Generate(cfg GeneratorConfig) ([]domain.Instance, map[string]map[string]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("generate instances: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	baseSlot := cfg.BaseHour * 60 / cfg.SlotMinutes

	out := make([]domain.Instance, 0, cfg.Instances)
	for n := 1; n <= cfg.Instances; n++ {
		deliveries := make([]domain.Delivery, 0, cfg.DeliveriesPerInstance)
		for j := 0; j < cfg.DeliveriesPerInstance; j++ {
			readySlot := baseSlot + rng.Intn(cfg.MaxReadyOffsetMin+1)/cfg.SlotMinutes
			windowOffsetMin := cfg.MinWindowOffsetMin
			if span := cfg.MaxWindowOffsetMin - cfg.MinWindowOffsetMin; span > 0 {
				windowOffsetMin += rng.Intn(span + 1)
			}
			windowStart := readySlot + windowOffsetMin/cfg.SlotMinutes
			windowEnd := windowStart + cfg.WindowLengthMin/cfg.SlotMinutes

			deliveries = append(deliveries, domain.Delivery{
				ID:              fmt.Sprintf("D%d", j),
				GoodsType:       cfg.GoodsTypes[rng.Intn(len(cfg.GoodsTypes))],
				WeightKg:        round2(cfg.MinWeightKg + rng.Float64()*(cfg.MaxWeightKg-cfg.MinWeightKg)),
				VolumeM3:        round2(cfg.MinVolumeM3 + rng.Float64()*(cfg.MaxVolumeM3-cfg.MinVolumeM3)),
				GoodsReady:      readySlot,
				Window:          domain.Window{Start: windowStart, End: windowEnd},
				HandlingArea:    fmt.Sprintf("GHA%d", 1+rng.Intn(cfg.HandlingAreas)),
				PickupLocation:  cfg.Locations[rng.Intn(len(cfg.Locations))],
				AvailableWeight: cfg.AvailableWeightKg,
				AvailableVolume: cfg.AvailableVolumeM3,
			})
		}
		out = append(out, domain.Instance{Name: fmt.Sprintf("Instance_%d", n), Deliveries: deliveries})
	}

	return out, generateTable(rng, cfg), nil
}

// AllLocations returns the generated table's location set: the configured
// origins followed by the depot.
func (cfg GeneratorConfig) AllLocations() []string {
	return append(append([]string{}, cfg.Locations...), cfg.Depot)
}

func generateTable(rng *rand.Rand, cfg GeneratorConfig) map[string]map[string]float64 {
	locations := cfg.AllLocations()

	table := make(map[string]map[string]float64, len(locations))
	for _, loc := range locations {
		table[loc] = make(map[string]float64, len(locations))
		table[loc][loc] = 0
	}
	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			km := float64(cfg.MinDistanceKm + rng.Intn(cfg.MaxDistanceKm-cfg.MinDistanceKm+1))
			table[locations[i]][locations[j]] = km
			table[locations[j]][locations[i]] = km
		}
	}
	return table
}

func (cfg GeneratorConfig) validate() error {
	if cfg.Instances < 1 {
		return fmt.Errorf("instances must be >= 1, got %d", cfg.Instances)
	}
	if cfg.DeliveriesPerInstance < 1 {
		return fmt.Errorf("deliveries per instance must be >= 1, got %d", cfg.DeliveriesPerInstance)
	}
	if len(cfg.GoodsTypes) == 0 {
		return fmt.Errorf("at least one goods type is required")
	}
	if len(cfg.Locations) == 0 {
		return fmt.Errorf("at least one pickup location is required")
	}
	if cfg.Depot == "" {
		return fmt.Errorf("depot must not be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Locations)+1)
	for _, loc := range cfg.Locations {
		if loc == cfg.Depot {
			return fmt.Errorf("depot %q must not appear among pickup locations", cfg.Depot)
		}
		if _, ok := seen[loc]; ok {
			return fmt.Errorf("duplicate pickup location %q", loc)
		}
		seen[loc] = struct{}{}
	}
	if cfg.HandlingAreas < 1 {
		return fmt.Errorf("handling areas must be >= 1, got %d", cfg.HandlingAreas)
	}
	if cfg.SlotMinutes < 1 {
		return fmt.Errorf("slot minutes must be >= 1, got %d", cfg.SlotMinutes)
	}
	if cfg.BaseHour < 0 || cfg.BaseHour > 23 {
		return fmt.Errorf("base hour must be within 0..23, got %d", cfg.BaseHour)
	}
	if cfg.MaxReadyOffsetMin < 0 {
		return fmt.Errorf("max ready offset must be >= 0, got %d", cfg.MaxReadyOffsetMin)
	}
	if cfg.MinWindowOffsetMin < 0 || cfg.MaxWindowOffsetMin < cfg.MinWindowOffsetMin {
		return fmt.Errorf("window offsets %d..%d are invalid", cfg.MinWindowOffsetMin, cfg.MaxWindowOffsetMin)
	}
	if cfg.WindowLengthMin < 0 {
		return fmt.Errorf("window length must be >= 0, got %d", cfg.WindowLengthMin)
	}
	if cfg.MinWeightKg <= 0 || cfg.MaxWeightKg < cfg.MinWeightKg {
		return fmt.Errorf("weight range %v..%v is invalid", cfg.MinWeightKg, cfg.MaxWeightKg)
	}
	if cfg.MinVolumeM3 <= 0 || cfg.MaxVolumeM3 < cfg.MinVolumeM3 {
		return fmt.Errorf("volume range %v..%v is invalid", cfg.MinVolumeM3, cfg.MaxVolumeM3)
	}
	if cfg.MinDistanceKm < 1 || cfg.MaxDistanceKm < cfg.MinDistanceKm {
		return fmt.Errorf("distance range %d..%d is invalid", cfg.MinDistanceKm, cfg.MaxDistanceKm)
	}
	if cfg.AvailableWeightKg <= 0 || cfg.AvailableVolumeM3 <= 0 {
		return fmt.Errorf("vehicle availability %v kg / %v m3 is invalid", cfg.AvailableWeightKg, cfg.AvailableVolumeM3)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
