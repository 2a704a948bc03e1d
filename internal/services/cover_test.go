package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MatteoMagnani95/TruckPooling/internal/domain"
)

func TestBuildCoverModel(t *testing.T) {
	deliveries := []domain.Delivery{{ID: "D0"}, {ID: "D1"}, {ID: "D2"}}
	trips := []domain.Trip{
		{ShipmentIDs: []string{"D0"}, Score: 10},
		{ShipmentIDs: []string{"D1"}, Score: 8},
		{ShipmentIDs: []string{"D0", "D1"}, Score: 7},
		{ShipmentIDs: []string{"D2"}, Score: 12},
	}

	model, err := BuildCoverModel(trips, deliveries)
	if err != nil {
		t.Fatalf("BuildCoverModel: %v", err)
	}

	if model.NumVars() != 4 {
		t.Errorf("NumVars = %d, want 4", model.NumVars())
	}
	if want := []float64{10, 8, 7, 12}; !reflect.DeepEqual(model.Costs, want) {
		t.Errorf("Costs = %v, want %v", model.Costs, want)
	}

	wantRows := []domain.CoverRow{
		{DeliveryID: "D0", TripVars: []int{0, 2}},
		{DeliveryID: "D1", TripVars: []int{1, 2}},
		{DeliveryID: "D2", TripVars: []int{3}},
	}
	if !reflect.DeepEqual(model.Rows, wantRows) {
		t.Errorf("Rows = %+v, want %+v", model.Rows, wantRows)
	}
}

func TestBuildCoverModelNoTrips(t *testing.T) {
	_, err := BuildCoverModel(nil, []domain.Delivery{{ID: "D0"}})
	if !errors.Is(err, ErrNoFeasibleTrips) {
		t.Errorf("error = %v, want ErrNoFeasibleTrips", err)
	}
}

func TestBuildCoverModelUncoverableDeliveries(t *testing.T) {
	deliveries := []domain.Delivery{{ID: "D0"}, {ID: "D1"}, {ID: "D2"}}
	trips := []domain.Trip{{ShipmentIDs: []string{"D1"}, Score: 5}}

	_, err := BuildCoverModel(trips, deliveries)
	if err == nil {
		t.Fatal("BuildCoverModel accepted deliveries no trip can cover")
	}

	var uncoverable *UncoverableDeliveriesError
	if !errors.As(err, &uncoverable) {
		t.Fatalf("error = %v, want UncoverableDeliveriesError", err)
	}
	if want := []string{"D0", "D2"}; !reflect.DeepEqual(uncoverable.IDs, want) {
		t.Errorf("uncoverable ids = %v, want %v", uncoverable.IDs, want)
	}
}

func TestBuildCoverModelRejectsDuplicateDeliveryID(t *testing.T) {
	deliveries := []domain.Delivery{{ID: "D0"}, {ID: "D0"}}
	trips := []domain.Trip{{ShipmentIDs: []string{"D0"}, Score: 5}}

	if _, err := BuildCoverModel(trips, deliveries); err == nil {
		t.Error("BuildCoverModel accepted duplicate delivery ids")
	}
}

func TestBuildCoverModelRejectsUnknownTripReference(t *testing.T) {
	deliveries := []domain.Delivery{{ID: "D0"}}
	trips := []domain.Trip{{ShipmentIDs: []string{"D0", "D9"}, Score: 5}}

	if _, err := BuildCoverModel(trips, deliveries); err == nil {
		t.Error("BuildCoverModel accepted a trip referencing an unknown delivery")
	}
}
