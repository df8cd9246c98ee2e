package solver

import "math"

// HaversineKm calculates the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the great-circle distance between two points. It
// errors only on coordinates outside the valid domain; degenerate inputs
// (identical points) are fine and return 0.
func DistanceKm(a, b GeoPoint) (float64, error) {
	if !a.Valid() {
		return 0, ErrInvalidCoordinate{Point: a}
	}
	if !b.Valid() {
		return 0, ErrInvalidCoordinate{Point: b}
	}
	return HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon), nil
}

// ShipmentCost converts a (distance, volume) pair into a monetary cost.
// Linear and strictly monotonic in both inputs; never negative for valid
// non-negative arguments.
func ShipmentCost(distanceKm, volumeM3 float64, rates Rates) float64 {
	return distanceKm*rates.DistancePerKm + volumeM3*rates.VolumePerM3
}
