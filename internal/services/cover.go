package services

import (
	"fmt"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// BuildCoverModel turns the candidate trips and the deliveries to cover
// into an exact-cover model: one binary variable per trip, one equality
// row per delivery, objective = sum of score times variable. Deliveries
// appearing in zero trips make the model infeasible by construction, so
// they are reported here instead of surfacing as an opaque solver result.
func BuildCoverModel(trips []domain.Trip, deliveries []domain.Delivery) (domain.CoverModel, error) {
	if len(trips) == 0 {
		return domain.CoverModel{}, ErrNoFeasibleTrips
	}

	rowIndex := make(map[string]int, len(deliveries))
	rows := make([]domain.CoverRow, len(deliveries))
	for i, d := range deliveries {
		if _, ok := rowIndex[d.ID]; ok {
			return domain.CoverModel{}, fmt.Errorf("build cover model: duplicate delivery id %q", d.ID)
		}
		rowIndex[d.ID] = i
		rows[i] = domain.CoverRow{DeliveryID: d.ID}
	}

	costs := make([]float64, len(trips))
	for v, t := range trips {
		costs[v] = t.Score
		for _, id := range t.ShipmentIDs {
			i, ok := rowIndex[id]
			if !ok {
				return domain.CoverModel{}, fmt.Errorf("build cover model: trip %d references unknown delivery %q", v, id)
			}
			rows[i].TripVars = append(rows[i].TripVars, v)
		}
	}

	var uncoverable []string
	for _, row := range rows {
		if len(row.TripVars) == 0 {
			uncoverable = append(uncoverable, row.DeliveryID)
		}
	}
	if len(uncoverable) > 0 {
		return domain.CoverModel{}, &UncoverableDeliveriesError{IDs: uncoverable}
	}

	return domain.CoverModel{Costs: costs, Rows: rows}, nil
}
