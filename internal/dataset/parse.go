package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cargoplan/facility-service/internal/parsers/csv"
	"github.com/cargoplan/facility-service/internal/solver"
)

// Column aliases accepted in dataset headers. The volume column appears
// both with the unicode superscript and its plain-ASCII spelling depending
// on the exporting tool.
var (
	supplierIDAliases = []string{"Supplier_ID", "supplier_id", "id"}
	customerIDAliases = []string{"Customer_ID", "customer_id", "id"}
	latitudeAliases   = []string{"Latitude", "lat"}
	longitudeAliases  = []string{"Longitude", "lon", "lng"}
	shipmentIDAliases = []string{"Shipment_ID", "shipment_id", "id"}
	volumeAliases     = []string{"Volume_m³", "Volume_m3", "volume"}
)

// ParseNodes maps a parsed table to node records, validating coordinates
// row by row so a bad record is rejected before any optimization starts.
func ParseNodes(table *csv.Table, idAliases []string) ([]solver.Node, error) {
	idCol, err := table.Index(idAliases...)
	if err != nil {
		return nil, err
	}
	latCol, err := table.Index(latitudeAliases...)
	if err != nil {
		return nil, err
	}
	lonCol, err := table.Index(longitudeAliases...)
	if err != nil {
		return nil, err
	}

	nodes := make([]solver.Node, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowNum := i + 2 // 1-based, after header
		if len(row) <= idCol || len(row) <= latCol || len(row) <= lonCol {
			return nil, fmt.Errorf("row %d: too few columns", rowNum)
		}
		lat, err := parseFloat(row[latCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude %q", rowNum, row[latCol])
		}
		lon, err := parseFloat(row[lonCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude %q", rowNum, row[lonCol])
		}
		node := solver.Node{
			ID:       strings.TrimSpace(row[idCol]),
			Location: solver.GeoPoint{Lat: lat, Lon: lon},
		}
		if node.ID == "" {
			return nil, fmt.Errorf("row %d: empty node identifier", rowNum)
		}
		if !node.Location.Valid() {
			return nil, solver.ErrInvalidCoordinate{NodeID: node.ID, Point: node.Location}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// ParseSuppliers maps a parsed table to supplier nodes.
func ParseSuppliers(table *csv.Table) ([]solver.Node, error) {
	return ParseNodes(table, supplierIDAliases)
}

// ParseCustomers maps a parsed table to customer nodes.
func ParseCustomers(table *csv.Table) ([]solver.Node, error) {
	return ParseNodes(table, customerIDAliases)
}

// ParseShipments maps a parsed table to shipment records.
func ParseShipments(table *csv.Table) ([]Shipment, error) {
	idCol, err := table.Index(shipmentIDAliases...)
	if err != nil {
		return nil, err
	}
	originCol, err := table.Index("Origin")
	if err != nil {
		return nil, err
	}
	destCol, err := table.Index("Destination")
	if err != nil {
		return nil, err
	}
	volCol, err := table.Index(volumeAliases...)
	if err != nil {
		return nil, err
	}

	shipments := make([]Shipment, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowNum := i + 2
		if len(row) <= idCol || len(row) <= originCol || len(row) <= destCol || len(row) <= volCol {
			return nil, fmt.Errorf("row %d: too few columns", rowNum)
		}
		vol, err := parseFloat(row[volCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid volume %q", rowNum, row[volCol])
		}
		if vol < 0 {
			return nil, fmt.Errorf("row %d: negative volume %g", rowNum, vol)
		}
		shipments = append(shipments, Shipment{
			ID:          strings.TrimSpace(row[idCol]),
			Origin:      strings.TrimSpace(row[originCol]),
			Destination: strings.TrimSpace(row[destCol]),
			VolumeM3:    vol,
		})
	}
	return shipments, nil
}

// parseFloat accepts both decimal point and decimal comma, which mixed
// European exports produce.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
