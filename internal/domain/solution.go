package domain

// Result of one solver assignment: the chosen trips and their aggregate
// metrics. SolutionNumber preserves the solver's pool order; a batch of
// Solutions is sorted by ascending objective before being handed to callers,
// so the pool order and the ranked order may differ.
type Solution struct {
	SolutionNumber int
	Objective      float64
	TripIndices    []int
	Trips          []Trip
	TotalKm        float64
	TotalWeight    float64
	TotalVolume    float64
	TotalScore     float64
}

// Number of trips selected by the assignment.
func (s Solution) TripCount() int { return len(s.Trips) }
