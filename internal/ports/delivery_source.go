package ports

import (
	"context"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

// Port: a boundary for retrieving problem instances from a data source.
type DeliverySource interface {
	// Retrieve all instances available for planning, ordered by name.
	ListInstances(ctx context.Context) ([]domain.Instance, error)
}
