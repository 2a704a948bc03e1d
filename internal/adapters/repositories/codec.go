package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// JSON document stored in the solutions.trips column. Kept separate from
// the domain type so the stored layout survives domain renames.
type tripDoc struct {
	ShipmentIDs []string `json:"shipment_ids"`
	TotalKm     float64  `json:"total_km"`
	TotalWeight float64  `json:"total_weight"`
	TotalVolume float64  `json:"total_volume"`
	Score       float64  `json:"score"`
}

func encodeTrips(trips []domain.Trip) (string, error) {
	docs := make([]tripDoc, 0, len(trips))
	for _, t := range trips {
		docs = append(docs, tripDoc{
			ShipmentIDs: t.ShipmentIDs,
			TotalKm:     t.TotalKm,
			TotalWeight: t.TotalWeight,
			TotalVolume: t.TotalVolume,
			Score:       t.Score,
		})
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode trips: %w", err)
	}
	return string(raw), nil
}

func decodeTrips(raw string) ([]domain.Trip, error) {
	var docs []tripDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}

	trips := make([]domain.Trip, 0, len(docs))
	for _, d := range docs {
		trips = append(trips, domain.Trip{
			ShipmentIDs: d.ShipmentIDs,
			TotalKm:     d.TotalKm,
			TotalWeight: d.TotalWeight,
			TotalVolume: d.TotalVolume,
			Score:       d.Score,
		})
	}
	return trips, nil
}

func encodeInts(values []int) (string, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode trip indices: %w", err)
	}
	return string(raw), nil
}

func decodeInts(raw string) ([]int, error) {
	var values []int
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode trip indices: %w", err)
	}
	return values, nil
}
