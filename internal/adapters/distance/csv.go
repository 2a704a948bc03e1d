package distance

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load a square distance matrix from a CSV file. Layout: a header row with
// an empty leading cell followed by location names, then one row per
// location starting with its name followed by kilometer values in header
// order. Structural problems (ragged rows, unparsable numbers, duplicate
// names) are reported with row and column context; symmetry and diagonal
// validation happen in NewTableProvider.
func LoadTableCSV(path string) (map[string]map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load distance table: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load distance table: parse %q: %w", path, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("load distance table: %q: expected a header and at least one row", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("load distance table: %q: header names no locations", path)
	}

	names := make([]string, 0, len(header)-1)
	seen := make(map[string]struct{}, len(header)-1)
	for _, name := range header[1:] {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("load distance table: %q: empty location name in header", path)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("load distance table: %q: duplicate location %q in header", path, name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(records)-1 != len(names) {
		return nil, fmt.Errorf("load distance table: %q: %d data rows for %d locations", path, len(records)-1, len(names))
	}

	table := make(map[string]map[string]float64, len(names))
	for rowNum, record := range records[1:] {
		if len(record) != len(names)+1 {
			return nil, fmt.Errorf("load distance table: %q: row %d has %d fields, want %d", path, rowNum+2, len(record), len(names)+1)
		}

		rowName := strings.TrimSpace(record[0])
		if _, ok := seen[rowName]; !ok {
			return nil, fmt.Errorf("load distance table: %q: row %d location %q not in header", path, rowNum+2, rowName)
		}
		if _, ok := table[rowName]; ok {
			return nil, fmt.Errorf("load distance table: %q: duplicate row for %q", path, rowName)
		}

		row := make(map[string]float64, len(names))
		for col, raw := range record[1:] {
			km, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("load distance table: %q: row %d column %q: %w", path, rowNum+2, names[col], err)
			}
			row[names[col]] = km
		}
		table[rowName] = row
	}

	return table, nil
}
