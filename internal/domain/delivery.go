package domain

// Represents a single shipment handled by the system.
// A Delivery is produced by the instance source and is read-only for the
// planning pipeline. All times are expressed as integer slots of a fixed
// duration; available weight/volume record the capacity still free at the
// pickup point when the record was created.
type Delivery struct {
	ID              string
	GoodsType       string
	WeightKg        float64
	VolumeM3        float64
	GoodsReady      int
	Window          Window
	HandlingArea    string
	PickupLocation  string
	AvailableWeight float64
	AvailableVolume float64
	LoadedGoodsIDs  []string
}

// Delivery window in slots, inclusive on both ends.
type Window struct {
	Start int
	End   int
}

func (w Window) Valid() bool { return w.Start <= w.End }

// A named batch of deliveries planned independently of all other batches.
type Instance struct {
	Name       string
	Deliveries []Delivery
}
