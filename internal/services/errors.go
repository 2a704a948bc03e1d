package services

import (
	"errors"
	"fmt"
	"strings"
)

// Reported when enumeration produced zero candidate trips for an instance;
// no solve is attempted in that case.
var ErrNoFeasibleTrips = errors.New("no feasible trips")

// Reported before solving when one or more deliveries appear in no
// candidate trip, which makes the cover model infeasible by construction.
type UncoverableDeliveriesError struct {
	IDs []string
}

func (e *UncoverableDeliveriesError) Error() string {
	return fmt.Sprintf("uncoverable deliveries: %s", strings.Join(e.IDs, ", "))
}
