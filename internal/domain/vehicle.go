package domain

// Vehicle capacity limits applied to every candidate trip.
type Vehicle struct {
	CapacityKg float64
	CapacityM3 float64
}

// Report whether a combined load fits the vehicle.
func (v Vehicle) Fits(weightKg, volumeM3 float64) bool {
	return weightKg <= v.CapacityKg && volumeM3 <= v.CapacityM3
}
