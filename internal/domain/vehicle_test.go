package domain

import "testing"

func TestVehicleFits(t *testing.T) {
	v := Vehicle{CapacityKg: 4000, CapacityM3: 15}

	cases := []struct {
		name   string
		weight float64
		volume float64
		want   bool
	}{
		{"well inside", 1000, 5, true},
		{"exactly at both limits", 4000, 15, true},
		{"weight over", 4000.1, 5, false},
		{"volume over", 1000, 15.5, false},
		{"both over", 5000, 20, false},
		{"empty load", 0, 0, true},
	}

	for _, tc := range cases {
		if got := v.Fits(tc.weight, tc.volume); got != tc.want {
			t.Errorf("%s: Fits(%v, %v) = %v, want %v", tc.name, tc.weight, tc.volume, got, tc.want)
		}
	}
}

func TestWindowValid(t *testing.T) {
	if !(Window{Start: 3, End: 7}).Valid() {
		t.Errorf("window 3..7 should be valid")
	}
	if !(Window{Start: 5, End: 5}).Valid() {
		t.Errorf("window 5..5 should be valid")
	}
	if (Window{Start: 7, End: 3}).Valid() {
		t.Errorf("window 7..3 should not be valid")
	}
}
