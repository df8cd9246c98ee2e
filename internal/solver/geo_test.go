package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineSymmetry(t *testing.T) {
	points := []GeoPoint{
		{Lat: 45.815, Lon: 15.982},  // Zagreb
		{Lat: 43.508, Lon: 16.440},  // Split
		{Lat: 52.520, Lon: 13.405},  // Berlin
		{Lat: -33.868, Lon: 151.21}, // Sydney
		{Lat: 0, Lon: 0},
	}

	for _, a := range points {
		for _, b := range points {
			assert.Equal(t,
				HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon),
				HaversineKm(b.Lat, b.Lon, a.Lat, a.Lon),
			)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is ~111.2 km on a 6371 km sphere.
	d := HaversineKm(50, 10, 51, 10)
	assert.InDelta(t, 111.19, d, 0.1)

	// Zagreb to Split, roughly 258 km great-circle.
	d = HaversineKm(45.815, 15.982, 43.508, 16.440)
	assert.InDelta(t, 259, d, 5)
}

func TestHaversineDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(50, 10, 50, 10))
	assert.GreaterOrEqual(t, HaversineKm(-90, 0, 90, 0), 0.0)
}

func TestDistanceKmRejectsInvalidCoordinates(t *testing.T) {
	_, err := DistanceKm(GeoPoint{Lat: 91, Lon: 0}, GeoPoint{Lat: 0, Lon: 0})
	require.Error(t, err)
	assert.IsType(t, ErrInvalidCoordinate{}, err)

	_, err = DistanceKm(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 0, Lon: -181})
	require.Error(t, err)

	d, err := DistanceKm(GeoPoint{Lat: 50, Lon: 10}, GeoPoint{Lat: 50, Lon: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestShipmentCost(t *testing.T) {
	rates := Rates{DistancePerKm: 0.5, VolumePerM3: 10}

	assert.Equal(t, 0.0, ShipmentCost(0, 0, rates))
	assert.Equal(t, 1000.0, ShipmentCost(0, 100, rates))
	assert.Equal(t, 50.0, ShipmentCost(100, 0, rates))
	assert.Equal(t, 1050.0, ShipmentCost(100, 100, rates))
}

func TestShipmentCostMonotonic(t *testing.T) {
	rates := Rates{DistancePerKm: 0.5, VolumePerM3: 10}
	base := ShipmentCost(100, 50, rates)

	assert.Greater(t, ShipmentCost(101, 50, rates), base)
	assert.Greater(t, ShipmentCost(100, 51, rates), base)
	assert.Greater(t, ShipmentCost(100, 50, Rates{DistancePerKm: 0.6, VolumePerM3: 10}), base)
	assert.Greater(t, ShipmentCost(100, 50, Rates{DistancePerKm: 0.5, VolumePerM3: 11}), base)

	// Raising a rate whose multiplied quantity is zero holds the cost equal.
	assert.Equal(t,
		ShipmentCost(0, 50, rates),
		ShipmentCost(0, 50, Rates{DistancePerKm: 99, VolumePerM3: 10}),
	)
}
