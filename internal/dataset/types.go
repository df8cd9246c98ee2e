// Package dataset loads supplier, customer, and shipment records and joins
// them into the flow sets the solver consumes.
package dataset

import (
	"fmt"

	"github.com/cargoplan/facility-service/internal/solver"
)

// Shipment is one raw shipment record. Exactly one of Origin/Destination
// is the facility placeholder; the other side names a supplier or customer.
type Shipment struct {
	ID          string
	Origin      string
	Destination string
	VolumeM3    float64
}

// Dataset is a fully loaded and validated input set.
type Dataset struct {
	Name      string
	Suppliers []solver.Node
	Customers []solver.Node
	Shipments []Shipment
}

// ErrUnresolvedReference is returned when a shipment names a node that is
// not present in the supplier or customer list.
type ErrUnresolvedReference struct {
	ShipmentID string
	NodeID     string
}

func (e ErrUnresolvedReference) Error() string {
	return fmt.Sprintf("shipment %s references unknown node %s", e.ShipmentID, e.NodeID)
}

// ErrMalformedShipment is returned when a shipment does not have the
// facility placeholder on exactly one side.
type ErrMalformedShipment struct {
	ShipmentID string
	Reason     string
}

func (e ErrMalformedShipment) Error() string {
	return fmt.Sprintf("shipment %s: %s", e.ShipmentID, e.Reason)
}

// Flows joins shipments against the node lists and splits them into
// inbound (supplier -> facility) and outbound (facility -> customer) legs.
// Unresolved references fail fast rather than silently dropping rows.
func (d *Dataset) Flows() (inbound, outbound []solver.Flow, err error) {
	supplierIdx := indexNodes(d.Suppliers)
	customerIdx := indexNodes(d.Customers)

	for _, s := range d.Shipments {
		toFacility := s.Destination == solver.FacilityPlaceholder
		fromFacility := s.Origin == solver.FacilityPlaceholder

		switch {
		case toFacility && fromFacility:
			return nil, nil, ErrMalformedShipment{ShipmentID: s.ID, Reason: "both sides are the facility"}
		case toFacility:
			node, ok := supplierIdx[s.Origin]
			if !ok {
				return nil, nil, ErrUnresolvedReference{ShipmentID: s.ID, NodeID: s.Origin}
			}
			inbound = append(inbound, solver.Flow{ShipmentID: s.ID, Node: node, VolumeM3: s.VolumeM3})
		case fromFacility:
			node, ok := customerIdx[s.Destination]
			if !ok {
				return nil, nil, ErrUnresolvedReference{ShipmentID: s.ID, NodeID: s.Destination}
			}
			outbound = append(outbound, solver.Flow{ShipmentID: s.ID, Node: node, VolumeM3: s.VolumeM3})
		default:
			return nil, nil, ErrMalformedShipment{ShipmentID: s.ID, Reason: "neither side is the facility"}
		}
	}
	return inbound, outbound, nil
}

// Request builds a solver request from the dataset with the given rates.
func (d *Dataset) Request(rates solver.Rates) (*solver.Request, error) {
	inbound, outbound, err := d.Flows()
	if err != nil {
		return nil, err
	}
	return &solver.Request{
		Inbound:   inbound,
		Outbound:  outbound,
		Suppliers: d.Suppliers,
		Customers: d.Customers,
		Rates:     rates,
	}, nil
}

func indexNodes(nodes []solver.Node) map[string]solver.Node {
	idx := make(map[string]solver.Node, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return idx
}
