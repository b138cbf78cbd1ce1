package model

// Vehicle represents one aircraft of the search fleet.
type Vehicle struct {
	ID   string
	Name string

	// SwarmIndex staggers this vehicle's spiral against the rest of the
	// fleet. A negative value asks the registry to allocate a free slot.
	SwarmIndex int

	Home GeoPoint
}
