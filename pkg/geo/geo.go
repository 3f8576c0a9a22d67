package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for Haversine distance.
const EarthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates
// in meters, using the Haversine formula. Inputs are degrees; callers are
// expected to have validated latitude/longitude ranges at the boundary.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Round2 rounds a distance to two decimal places for API responses.
func Round2(meters float64) float64 {
	return math.Round(meters*100) / 100
}
