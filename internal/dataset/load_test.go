package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoplan/facility-service/internal/parsers/csv"
	"github.com/cargoplan/facility-service/internal/solver"
)

func writeDataset(t *testing.T, suppliers, customers, shipments string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "suppliers.csv"), []byte(suppliers), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"), []byte(customers), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipments.csv"), []byte(shipments), 0o644))
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeDataset(t,
		"Supplier_ID,Latitude,Longitude\nSupplier_ID1,45.0,16.0\nSupplier_ID2,50.0,10.0\n",
		"Customer_ID,Latitude,Longitude\nCustomer_ID1,48.0,12.0\n",
		"Shipment_ID,Origin,Destination,Volume_m³\nInbound_1,Supplier_ID1,Warehouse,100\nInbound_2,Supplier_ID2,Warehouse,40\nOutbound_1,Warehouse,Customer_ID1,140\n",
	)

	ds, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, ds.Suppliers, 2)
	assert.Len(t, ds.Customers, 1)
	assert.Len(t, ds.Shipments, 3)
	assert.Equal(t, solver.GeoPoint{Lat: 45, Lon: 16}, ds.Suppliers[0].Location)

	inbound, outbound, err := ds.Flows()
	require.NoError(t, err)
	assert.Len(t, inbound, 2)
	assert.Len(t, outbound, 1)
	assert.Equal(t, "Customer_ID1", outbound[0].Node.ID)
	assert.Equal(t, 140.0, outbound[0].VolumeM3)
}

func TestLoadDirRejectsBadCoordinate(t *testing.T) {
	dir := writeDataset(t,
		"Supplier_ID,Latitude,Longitude\nSupplier_ID1,95.0,16.0\n",
		"Customer_ID,Latitude,Longitude\nCustomer_ID1,48.0,12.0\n",
		"Shipment_ID,Origin,Destination,Volume_m³\nInbound_1,Supplier_ID1,Warehouse,100\n",
	)

	_, err := LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "coordinate out of range")
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "suppliers")
}

func TestFlowsUnresolvedReference(t *testing.T) {
	ds := &Dataset{
		Suppliers: []solver.Node{{ID: "s1", Location: solver.GeoPoint{Lat: 45, Lon: 16}}},
		Customers: []solver.Node{{ID: "c1", Location: solver.GeoPoint{Lat: 48, Lon: 12}}},
		Shipments: []Shipment{{ID: "x1", Origin: "ghost", Destination: "Warehouse", VolumeM3: 5}},
	}

	_, _, err := ds.Flows()
	require.Error(t, err)
	assert.IsType(t, ErrUnresolvedReference{}, err)
}

func TestFlowsMalformedShipment(t *testing.T) {
	ds := &Dataset{
		Suppliers: []solver.Node{{ID: "s1"}},
		Customers: []solver.Node{{ID: "c1"}},
		Shipments: []Shipment{{ID: "x1", Origin: "s1", Destination: "c1", VolumeM3: 5}},
	}

	_, _, err := ds.Flows()
	require.Error(t, err)
	assert.IsType(t, ErrMalformedShipment{}, err)
}

func TestParseShipmentsVolumeAliases(t *testing.T) {
	table := &csv.Table{
		Headers: []string{"Shipment_ID", "Origin", "Destination", "Volume_m3"},
		Rows:    [][]string{{"i1", "s1", "Warehouse", "12,5"}},
	}

	shipments, err := ParseShipments(table)
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, 12.5, shipments[0].VolumeM3)
}

func TestParseShipmentsNegativeVolume(t *testing.T) {
	table := &csv.Table{
		Headers: []string{"Shipment_ID", "Origin", "Destination", "Volume_m³"},
		Rows:    [][]string{{"i1", "s1", "Warehouse", "-1"}},
	}

	_, err := ParseShipments(table)
	require.Error(t, err)
	assert.ErrorContains(t, err, "negative volume")
}
