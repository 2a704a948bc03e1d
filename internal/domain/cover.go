package domain

// Exact-cover optimization model: one binary variable per candidate trip,
// one constraint row per delivery requiring exactly one covering trip to be
// selected, and a linear cost vector to minimize. A CoverModel is built per
// solve and discarded afterwards.
type CoverModel struct {
	Costs []float64
	Rows  []CoverRow
}

// A single coverage constraint: the variables (trip indices) whose trips
// contain one delivery, of which exactly one must be chosen.
type CoverRow struct {
	DeliveryID string
	TripVars   []int
}

func (m CoverModel) NumVars() int { return len(m.Costs) }
