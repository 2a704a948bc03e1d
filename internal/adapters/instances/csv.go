package instances

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// Column layout shared by the instance reader and writer.
var instanceHeader = []string{
	"id", "goods_type", "weight_kg", "volume_m3",
	"goods_ready_slot", "window_start_slot", "window_end_slot",
	"handling_area", "pickup_location",
	"available_weight", "available_volume", "loaded_goods_ids",
}

var incompatHeader = []string{"goods_type_1", "goods_type_2"}

// CSVSource reads problem instances from a directory of Instance_*.csv
// files; it implements the DeliverySource port.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource { return &CSVSource{Dir: dir} }

// ListInstances loads every Instance_*.csv under the directory in
// lexicographic name order. The instance name is the file name without its
// extension.
func (s *CSVSource) ListInstances(ctx context.Context) ([]domain.Instance, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "Instance_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list instances: glob %q: %w", s.Dir, err)
	}
	sort.Strings(matches)

	out := make([]domain.Instance, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("list instances: %w", err)
		}

		instance, err := ReadInstanceFile(path)
		if err != nil {
			return nil, fmt.Errorf("list instances: %w", err)
		}
		out = append(out, instance)
	}

	return out, nil
}

// ReadInstanceFile parses one instance CSV. Malformed rows are rejected
// with the row number and column name; delivery ids must be unique within
// the file.
func ReadInstanceFile(path string) (domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Instance{}, fmt.Errorf("read instance: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return domain.Instance{}, fmt.Errorf("read instance: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return domain.Instance{}, fmt.Errorf("read instance: %q: missing header", path)
	}
	if err := checkHeader(records[0]); err != nil {
		return domain.Instance{}, fmt.Errorf("read instance: %q: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	instance := domain.Instance{Name: name, Deliveries: make([]domain.Delivery, 0, len(records)-1)}

	seen := make(map[string]struct{}, len(records)-1)
	for rowNum, record := range records[1:] {
		d, err := parseDelivery(record)
		if err != nil {
			return domain.Instance{}, fmt.Errorf("read instance: %q: row %d: %w", path, rowNum+2, err)
		}
		if _, ok := seen[d.ID]; ok {
			return domain.Instance{}, fmt.Errorf("read instance: %q: row %d: duplicate id %q", path, rowNum+2, d.ID)
		}
		seen[d.ID] = struct{}{}
		instance.Deliveries = append(instance.Deliveries, d)
	}

	return instance, nil
}

func checkHeader(header []string) error {
	if len(header) != len(instanceHeader) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(instanceHeader))
	}
	for i, want := range instanceHeader {
		if strings.TrimSpace(header[i]) != want {
			return fmt.Errorf("header column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func parseDelivery(record []string) (domain.Delivery, error) {
	if len(record) != len(instanceHeader) {
		return domain.Delivery{}, fmt.Errorf("expected %d fields, got %d", len(instanceHeader), len(record))
	}

	id := strings.TrimSpace(record[0])
	if id == "" {
		return domain.Delivery{}, fmt.Errorf("id must not be empty")
	}

	weight, err := parseFloat(record[2], "weight_kg")
	if err != nil {
		return domain.Delivery{}, err
	}
	volume, err := parseFloat(record[3], "volume_m3")
	if err != nil {
		return domain.Delivery{}, err
	}
	ready, err := parseInt(record[4], "goods_ready_slot")
	if err != nil {
		return domain.Delivery{}, err
	}
	windowStart, err := parseInt(record[5], "window_start_slot")
	if err != nil {
		return domain.Delivery{}, err
	}
	windowEnd, err := parseInt(record[6], "window_end_slot")
	if err != nil {
		return domain.Delivery{}, err
	}
	availableWeight, err := parseFloat(record[9], "available_weight")
	if err != nil {
		return domain.Delivery{}, err
	}
	availableVolume, err := parseFloat(record[10], "available_volume")
	if err != nil {
		return domain.Delivery{}, err
	}

	if weight <= 0 {
		return domain.Delivery{}, fmt.Errorf("weight_kg must be > 0, got %v", weight)
	}
	if volume <= 0 {
		return domain.Delivery{}, fmt.Errorf("volume_m3 must be > 0, got %v", volume)
	}
	window := domain.Window{Start: windowStart, End: windowEnd}
	if !window.Valid() {
		return domain.Delivery{}, fmt.Errorf("window %d..%d is inverted", windowStart, windowEnd)
	}

	var loaded []string
	if raw := strings.TrimSpace(record[11]); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				loaded = append(loaded, part)
			}
		}
	}

	return domain.Delivery{
		ID:              id,
		GoodsType:       strings.TrimSpace(record[1]),
		WeightKg:        weight,
		VolumeM3:        volume,
		GoodsReady:      ready,
		Window:          window,
		HandlingArea:    strings.TrimSpace(record[7]),
		PickupLocation:  strings.TrimSpace(record[8]),
		AvailableWeight: availableWeight,
		AvailableVolume: availableVolume,
		LoadedGoodsIDs:  loaded,
	}, nil
}

func parseFloat(raw, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

func parseInt(raw, column string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

// WriteInstanceFile writes deliveries in the column layout
// ReadInstanceFile expects.
func WriteInstanceFile(path string, deliveries []domain.Delivery) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write instance: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(instanceHeader); err != nil {
		return fmt.Errorf("write instance: header: %w", err)
	}

	for _, d := range deliveries {
		record := []string{
			d.ID,
			d.GoodsType,
			formatFloat(d.WeightKg),
			formatFloat(d.VolumeM3),
			strconv.Itoa(d.GoodsReady),
			strconv.Itoa(d.Window.Start),
			strconv.Itoa(d.Window.End),
			d.HandlingArea,
			d.PickupLocation,
			formatFloat(d.AvailableWeight),
			formatFloat(d.AvailableVolume),
			strings.Join(d.LoadedGoodsIDs, ","),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write instance: delivery %q: %w", d.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write instance: flush %q: %w", path, err)
	}
	return nil
}

// WriteDistanceFile writes the symmetric distance table in the matrix
// layout the distance loader expects: location names across the header and
// down the first column.
func WriteDistanceFile(path string, locations []string, table map[string]map[string]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write distance table: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{""}, locations...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write distance table: header: %w", err)
	}

	for _, from := range locations {
		record := make([]string, 0, len(locations)+1)
		record = append(record, from)
		for _, to := range locations {
			km, ok := table[from][to]
			if !ok {
				return fmt.Errorf("write distance table: missing entry %q -> %q", from, to)
			}
			record = append(record, formatFloat(km))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write distance table: row %q: %w", from, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write distance table: flush %q: %w", path, err)
	}
	return nil
}

// ReadIncompatibilityFile loads forbidden goods-type pairs. The file is
// optional in a planning run; callers decide how to treat a missing file.
func ReadIncompatibilityFile(path string) (*domain.IncompatibilitySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read incompatibilities: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read incompatibilities: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read incompatibilities: %q: missing header", path)
	}
	if len(records[0]) != len(incompatHeader) ||
		strings.TrimSpace(records[0][0]) != incompatHeader[0] ||
		strings.TrimSpace(records[0][1]) != incompatHeader[1] {
		return nil, fmt.Errorf("read incompatibilities: %q: unexpected header %v", path, records[0])
	}

	set := domain.NewIncompatibilitySet()
	for rowNum, record := range records[1:] {
		a := strings.TrimSpace(record[0])
		b := strings.TrimSpace(record[1])
		if a == "" || b == "" {
			return nil, fmt.Errorf("read incompatibilities: %q: row %d: empty goods type", path, rowNum+2)
		}
		set.Add(a, b)
	}

	return set, nil
}

// WriteIncompatibilityFile writes forbidden goods-type pairs in the layout
// ReadIncompatibilityFile expects.
func WriteIncompatibilityFile(path string, pairs [][2]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write incompatibilities: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(incompatHeader); err != nil {
		return fmt.Errorf("write incompatibilities: header: %w", err)
	}
	for _, p := range pairs {
		if err := w.Write([]string{p[0], p[1]}); err != nil {
			return fmt.Errorf("write incompatibilities: pair %v: %w", p, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write incompatibilities: flush %q: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
