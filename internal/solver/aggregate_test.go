package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRates = Rates{DistancePerKm: 0.5, VolumePerM3: 10}

func flow(id string, lat, lon, vol float64) Flow {
	return Flow{
		ShipmentID: id,
		Node:       Node{ID: id, Location: GeoPoint{Lat: lat, Lon: lon}},
		VolumeM3:   vol,
	}
}

func TestTotalCostEmpty(t *testing.T) {
	cost := TotalCost(GeoPoint{Lat: 50, Lon: 10}, nil, nil, testRates)
	assert.Equal(t, 0.0, cost)
}

func TestTotalCostSumsBothDirections(t *testing.T) {
	candidate := GeoPoint{Lat: 50, Lon: 10}
	inbound := []Flow{flow("in1", 51, 10, 100)}
	outbound := []Flow{flow("out1", 49, 10, 50)}

	dIn := HaversineKm(51, 10, 50, 10)
	dOut := HaversineKm(50, 10, 49, 10)
	want := ShipmentCost(dIn, 100, testRates) + ShipmentCost(dOut, 50, testRates)

	assert.InDelta(t, want, TotalCost(candidate, inbound, outbound, testRates), 1e-9)
}

func TestTotalCostDirectionIrrelevant(t *testing.T) {
	// Swapping a flow between inbound and outbound must not change the sum.
	candidate := GeoPoint{Lat: 45, Lon: 16}
	f := []Flow{flow("s1", 46, 15, 30), flow("s2", 44, 17, 70)}

	asInbound := TotalCost(candidate, f, nil, testRates)
	asOutbound := TotalCost(candidate, nil, f, testRates)
	assert.InDelta(t, asInbound, asOutbound, 1e-9)
}

func TestTotalCostPure(t *testing.T) {
	inbound := []Flow{flow("in1", 51, 12, 100), flow("in2", 49, 8, 25)}
	outbound := []Flow{flow("out1", 50, 11, 60)}

	first := TotalCost(GeoPoint{Lat: 50, Lon: 10}, inbound, outbound, testRates)
	// Different candidates in between must not disturb later evaluations.
	_ = TotalCost(GeoPoint{Lat: 0, Lon: 0}, inbound, outbound, testRates)
	second := TotalCost(GeoPoint{Lat: 50, Lon: 10}, inbound, outbound, testRates)

	assert.Equal(t, first, second)
	assert.Equal(t, "in1", inbound[0].ShipmentID)
	assert.Equal(t, 100.0, inbound[0].VolumeM3)
}

func TestTotalCostNonNegative(t *testing.T) {
	candidates := []GeoPoint{{Lat: 50, Lon: 10}, {Lat: -50, Lon: -10}, {Lat: 0, Lon: 179}}
	inbound := []Flow{flow("in1", 60, 40, 0), flow("in2", 35, -10, 100)}

	for _, c := range candidates {
		assert.GreaterOrEqual(t, TotalCost(c, inbound, nil, testRates), 0.0)
	}
}

func TestFlowTablePrecomputation(t *testing.T) {
	inbound := []Flow{flow("in1", 51, 12, 100)}
	outbound := []Flow{flow("out1", 50, 11, 60), flow("out2", 49, 9, 40)}

	table := newFlowTable(inbound, outbound)
	assert.Equal(t, 3, table.len())
	assert.Equal(t, []float64{51, 50, 49}, table.lats)
	assert.Equal(t, []float64{100, 60, 40}, table.vols)

	want := TotalCost(GeoPoint{Lat: 50, Lon: 10}, inbound, outbound, testRates)
	assert.InDelta(t, want, table.totalCost(50, 10, testRates), 1e-9)
}
