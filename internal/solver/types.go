package solver

import "fmt"

// FacilityPlaceholder is the literal node identifier that marks the
// warehouse side of a shipment record.
const FacilityPlaceholder = "Warehouse"

// GeoPoint is an immutable latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point lies inside the coordinate domain.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Node is a fixed supply or demand point. Nodes are created once at load
// time and never mutated afterwards.
type Node struct {
	ID       string
	Location GeoPoint
}

// Flow is one shipment leg between a fixed node and the facility under
// optimization. Inbound flows run node -> facility, outbound flows run
// facility -> node; the distinction is kept for clarity even though the
// distance model is symmetric.
type Flow struct {
	ShipmentID string
	Node       Node
	VolumeM3   float64
}

// Rates holds the cost model tariffs.
type Rates struct {
	DistancePerKm float64
	VolumePerM3   float64
}

// Request contains the inputs for a facility placement run.
type Request struct {
	Inbound   []Flow // supplier -> facility shipments
	Outbound  []Flow // facility -> customer shipments
	Suppliers []Node
	Customers []Node
	Rates     Rates
}

// Validate checks the request before any solver work starts. Validation
// failures are returned as typed errors so callers can distinguish bad
// coordinates from missing data.
func (r *Request) Validate() error {
	if len(r.Suppliers) == 0 {
		return ErrInsufficientData{Reason: "no suppliers"}
	}
	if len(r.Customers) == 0 {
		return ErrInsufficientData{Reason: "no customers"}
	}
	if len(r.Inbound)+len(r.Outbound) == 0 {
		return ErrInsufficientData{Reason: "no shipments"}
	}
	if r.Rates.DistancePerKm < 0 {
		return ErrInvalidInput{Field: "rates.distancePerKm", Reason: "must be non-negative"}
	}
	if r.Rates.VolumePerM3 < 0 {
		return ErrInvalidInput{Field: "rates.volumePerM3", Reason: "must be non-negative"}
	}
	for _, n := range r.Suppliers {
		if !n.Location.Valid() {
			return ErrInvalidCoordinate{NodeID: n.ID, Point: n.Location}
		}
	}
	for _, n := range r.Customers {
		if !n.Location.Valid() {
			return ErrInvalidCoordinate{NodeID: n.ID, Point: n.Location}
		}
	}
	for _, f := range append(append([]Flow{}, r.Inbound...), r.Outbound...) {
		if !f.Node.Location.Valid() {
			return ErrInvalidCoordinate{NodeID: f.Node.ID, Point: f.Node.Location}
		}
		if f.VolumeM3 < 0 {
			return ErrInvalidInput{
				Field:  "shipment.volumeM3",
				Reason: fmt.Sprintf("shipment %s has negative volume", f.ShipmentID),
			}
		}
	}
	return nil
}

// TrajectoryPoint is one entry of the cost trajectory: the objective value
// at an accepted solver iterate. Index 0 is the initial guess.
type TrajectoryPoint struct {
	Iteration int
	Cost      float64
	Location  GeoPoint
}

// Result is the outcome of one placement run. It is immutable once
// returned; the trajectory is ordered by iteration index.
type Result struct {
	Location        GeoPoint
	Cost            float64
	Converged       bool
	Status          string
	Iterations      int
	FuncEvaluations int
	Trajectory      []TrajectoryPoint
}
