package domain

// Represents a candidate bundle of deliveries that may legally travel
// together on one vehicle run. Pickups are visited in member order with the
// run terminating at the depot. The member id set is fixed at construction
// and every Trip satisfies the feasibility checks it was built under.
type Trip struct {
	ShipmentIDs []string
	TotalKm     float64
	TotalWeight float64
	TotalVolume float64
	Score       float64
}

// Number of deliveries bundled on the trip.
func (t Trip) Size() int { return len(t.ShipmentIDs) }
