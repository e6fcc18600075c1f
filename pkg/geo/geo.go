package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

func ToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func ToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	la1, lo1 := ToRad(lat1), ToRad(lon1)
	la2, lo2 := ToRad(lat2), ToRad(lon2)
	dLat := la2 - la1
	dLon := lo2 - lo1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Bearing returns the bearing in degrees, in [0, 360), from the first
// coordinate to the second one along the Mercator projection.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := ToRad(lon2 - lon1)
	la1, la2 := ToRad(lat1), ToRad(lat2)

	dPhi := math.Log(math.Tan(la2/2+math.Pi/4) / math.Tan(la1/2+math.Pi/4))

	// take the shorter way around the antimeridian
	if math.Abs(dLon) > math.Pi {
		if dLon > 0 {
			dLon = -(2*math.Pi - dLon)
		} else {
			dLon = 2*math.Pi + dLon
		}
	}

	return math.Mod(ToDeg(math.Atan2(dLon, dPhi))+360, 360)
}
