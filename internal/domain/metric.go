package domain

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// Direction of an inclination, read from the first point towards the second.
type Direction string

const (
	DirectionAscending  Direction = "ascending"
	DirectionDescending Direction = "descending"
	DirectionLevel      Direction = "level"
)

// DistanceResult is a horizontal distance in meters. Approximate is set when the
// points were in different frames and the mixed fallback was used.
type DistanceResult struct {
	Meters      float64 `json:"meters"`
	Approximate bool    `json:"approximate,omitempty"`
}

// InclinationResult describes the slope between two points.
type InclinationResult struct {
	Percentage          float64   `json:"percentage"`
	Degrees             float64   `json:"degrees"`
	Ratio               string    `json:"ratio"`
	Direction           Direction `json:"direction"`
	Distance            float64   `json:"distance"`
	ElevationDifference float64   `json:"elevation_difference"`
	Approximate         bool      `json:"approximate,omitempty"`
}

// Distance returns the horizontal distance between two points.
//
// Two geographic points use the haversine great-circle distance. Two points in
// the same grid frame (UTM/UTM or PLANAR/PLANAR) use Euclidean distance. Any
// other combination falls back to a Euclidean distance over the stored values,
// scaling degree-like deltas by 111320 m/° (longitude by cos of the mean
// latitude); that result is marked Approximate.
func Distance(p1, p2 SurveyPoint) DistanceResult {
	if p1.Kind == KindGeographic && p2.Kind == KindGeographic {
		return DistanceResult{Meters: haversine(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude)}
	}

	x1, y1 := p1.cartesian()
	x2, y2 := p2.cartesian()
	dx := x2 - x1
	dy := y2 - y1

	if p1.Kind == p2.Kind {
		return DistanceResult{Meters: math.Hypot(dx, dy)}
	}

	if looksLikeDegrees(x1, y1) && looksLikeDegrees(x2, y2) {
		meanLat := toRad((y1 + y2) / 2)
		dy *= metersPerDegreeLat
		dx *= metersPerDegreeLat * math.Cos(meanLat)
	}
	return DistanceResult{Meters: math.Hypot(dx, dy), Approximate: true}
}

// ElevationDifference returns p2's elevation relative to p1 (signed).
func ElevationDifference(p1, p2 SurveyPoint) float64 {
	return p2.Elevation - p1.Elevation
}

// Inclination computes the slope from p1 to p2. Coincident points and level
// pairs yield a zero slope with ratio "0:1".
func Inclination(p1, p2 SurveyPoint) InclinationResult {
	d := Distance(p1, p2)
	dh := ElevationDifference(p1, p2)

	res := InclinationResult{
		Ratio:               "0:1",
		Direction:           directionOf(dh),
		Distance:            d.Meters,
		ElevationDifference: dh,
		Approximate:         d.Approximate,
	}
	if d.Meters == 0 {
		return res
	}

	rise := math.Abs(dh)
	res.Percentage = rise / d.Meters * 100
	res.Degrees = toDeg(math.Atan(rise / d.Meters))
	if rise != 0 {
		res.Ratio = fmt.Sprintf("1:%.1f", d.Meters/rise)
	}
	return res
}

func directionOf(dh float64) Direction {
	switch {
	case dh > 0:
		return DirectionAscending
	case dh < 0:
		return DirectionDescending
	default:
		return DirectionLevel
	}
}

func looksLikeDegrees(x, y float64) bool {
	return math.Abs(x) < 180 && math.Abs(y) < 90
}

// haversine calculates the great-circle distance in meters between two points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
