package solver

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
	"github.com/MatteoMagnani95/TruckPooling/internal/platform/obs"
	"github.com/MatteoMagnani95/TruckPooling/internal/ports"
)

// Exact branch-and-bound backend for the cover model. The search is
// deterministic: it always branches on the first uncovered delivery row
// and tries covering trips in ascending variable order, so repeated solves
// of the same model produce identical pools. Costs must be nonnegative,
// which holds for distance-derived scores and is what makes the
// accumulated cost a valid pruning bound.
type BranchAndBound struct{}

func NewBranchAndBound() *BranchAndBound { return &BranchAndBound{} }

const (
	// Applied when the caller passes no explicit time budget.
	defaultTimeLimit = time.Hour
	// The deadline is polled once every deadlineMask+1 visited nodes.
	deadlineMask = 0x3FF
)

func (b *BranchAndBound) SolveCover(
	ctx context.Context,
	model domain.CoverModel,
	controls ports.SolveControls,
) (_ ports.SolveResult, err error) {
	defer obs.Time(ctx, "solver.bnb.solve")(&err)

	if err := validateModel(model); err != nil {
		return ports.SolveResult{}, fmt.Errorf("bnb solve: %w", err)
	}

	maxSolutions := controls.MaxSolutions
	if maxSolutions < 1 {
		maxSolutions = 1
	}

	timeLimit := controls.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}
	deadline := time.Now().Add(timeLimit)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if ctx.Err() != nil || !time.Now().Before(deadline) {
		return ports.SolveResult{Status: ports.StatusTimeout}, nil
	}

	e := newEngine(ctx, model, maxSolutions, deadline)
	e.search(0, 0)

	var status ports.SolveStatus
	switch {
	case len(e.pool) == 0 && e.timedOut:
		status = ports.StatusTimeout
	case len(e.pool) == 0:
		status = ports.StatusInfeasible
	case e.timedOut:
		status = ports.StatusFeasible
	default:
		status = ports.StatusOptimal
	}

	pool := e.pool
	if controls.RelativeGap > 0 && len(pool) > 1 {
		cut := pool[0].objective * (1 + controls.RelativeGap)
		n := len(pool)
		for n > 1 && pool[n-1].objective > cut {
			n--
		}
		pool = pool[:n]
	}

	assignments := make([]ports.Assignment, 0, len(pool))
	for _, s := range pool {
		values := make([]float64, len(model.Costs))
		for _, v := range s.chosen {
			values[v] = 1
		}
		assignments = append(assignments, ports.Assignment{Objective: s.objective, Values: values})
	}

	return ports.SolveResult{Status: status, Assignments: assignments}, nil
}

type bnbSolution struct {
	objective float64
	chosen    []int
}

// Search state for one solve. Row coverage lives in a bitset so overlap
// tests cost one word operation per covered row; tripRows and minRowCost
// are precomputed once from the model.
type bnbEngine struct {
	ctx          context.Context
	costs        []float64
	rows         []domain.CoverRow
	tripRows     [][]int
	minRowCost   []float64
	covered      []uint64
	chosen       []int
	pool         []bnbSolution
	maxSolutions int
	deadline     time.Time
	steps        uint64
	timedOut     bool
}

func newEngine(ctx context.Context, model domain.CoverModel, maxSolutions int, deadline time.Time) *bnbEngine {
	tripRows := make([][]int, len(model.Costs))
	for r, row := range model.Rows {
		for _, v := range row.TripVars {
			tripRows[v] = append(tripRows[v], r)
		}
	}

	minRowCost := make([]float64, len(model.Rows))
	for r, row := range model.Rows {
		min := math.Inf(1)
		for _, v := range row.TripVars {
			if model.Costs[v] < min {
				min = model.Costs[v]
			}
		}
		minRowCost[r] = min
	}

	return &bnbEngine{
		ctx:          ctx,
		costs:        model.Costs,
		rows:         model.Rows,
		tripRows:     tripRows,
		minRowCost:   minRowCost,
		covered:      make([]uint64, (len(model.Rows)+63)/64),
		maxSolutions: maxSolutions,
		deadline:     deadline,
	}
}

// Depth-first search over partitions. Rows before fromRow are known to be
// covered on the current path, so the first-uncovered scan resumes there.
func (e *bnbEngine) search(fromRow int, cost float64) {
	if e.timedOut {
		return
	}
	e.steps++
	if e.steps&deadlineMask == 0 {
		if e.ctx.Err() != nil || time.Now().After(e.deadline) {
			e.timedOut = true
			return
		}
	}

	row := fromRow
	for row < len(e.rows) && e.isCovered(row) {
		row++
	}
	if row == len(e.rows) {
		e.record(cost)
		return
	}

	// Any completion still has to pay for covering this row.
	if !e.admissible(cost + e.minRowCost[row]) {
		return
	}

	for _, v := range e.rows[row].TripVars {
		if e.overlaps(v) {
			continue
		}
		next := cost + e.costs[v]
		if !e.admissible(next) {
			continue
		}

		e.cover(v)
		e.chosen = append(e.chosen, v)
		e.search(row+1, next)
		e.chosen = e.chosen[:len(e.chosen)-1]
		e.uncover(v)

		if e.timedOut {
			return
		}
	}
}

// Report whether a solution with the given final objective could still
// enter the pool.
func (e *bnbEngine) admissible(objective float64) bool {
	if len(e.pool) < e.maxSolutions {
		return true
	}
	return objective < e.pool[len(e.pool)-1].objective
}

// Insert the current selection, keeping the pool sorted ascending by
// objective; equal objectives keep discovery order.
func (e *bnbEngine) record(objective float64) {
	if !e.admissible(objective) {
		return
	}

	chosen := make([]int, len(e.chosen))
	copy(chosen, e.chosen)

	at := sort.Search(len(e.pool), func(i int) bool { return e.pool[i].objective > objective })
	e.pool = append(e.pool, bnbSolution{})
	copy(e.pool[at+1:], e.pool[at:])
	e.pool[at] = bnbSolution{objective: objective, chosen: chosen}

	if len(e.pool) > e.maxSolutions {
		e.pool = e.pool[:e.maxSolutions]
	}
}

func (e *bnbEngine) overlaps(v int) bool {
	for _, r := range e.tripRows[v] {
		if e.covered[r>>6]&(1<<(uint(r)&63)) != 0 {
			return true
		}
	}
	return false
}

func (e *bnbEngine) cover(v int) {
	for _, r := range e.tripRows[v] {
		e.covered[r>>6] |= 1 << (uint(r) & 63)
	}
}

func (e *bnbEngine) uncover(v int) {
	for _, r := range e.tripRows[v] {
		e.covered[r>>6] &^= 1 << (uint(r) & 63)
	}
}

func (e *bnbEngine) isCovered(row int) bool {
	return e.covered[row>>6]&(1<<(uint(row)&63)) != 0
}

// Shared sanity check for solver backends: variable references must be in
// range and costs must be usable as nonnegative objective coefficients.
func validateModel(model domain.CoverModel) error {
	for v, c := range model.Costs {
		if c < 0 || math.IsNaN(c) {
			return fmt.Errorf("cover model: variable %d has invalid cost %v", v, c)
		}
	}
	for i, row := range model.Rows {
		for _, v := range row.TripVars {
			if v < 0 || v >= len(model.Costs) {
				return fmt.Errorf("cover model: row %d (%q) references variable %d of %d", i, row.DeliveryID, v, len(model.Costs))
			}
		}
	}
	return nil
}
