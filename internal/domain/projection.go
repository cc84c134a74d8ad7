package domain

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid and UTM grid parameters.
const (
	wgs84SemiMajor     = 6378137.0
	wgs84Flattening    = 1 / 298.257223563
	utmScaleFactor     = 0.9996
	utmFalseEasting    = 500000.0
	utmFalseNorthingS  = 10000000.0
	metersPerDegreeLat = 111320.0
)

// UTMCoordinate is a position in a Transverse Mercator grid.
type UTMCoordinate struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Zone     int     `json:"zone,omitempty"`
	Southern bool    `json:"southern,omitempty"`
}

// Projector maps a survey point into the Cartesian working frame used for
// angular analysis.
type Projector interface {
	Project(p SurveyPoint) (UTMCoordinate, error)
}

// TransverseMercator projects geographic points with a truncated forward
// Transverse Mercator series. It is accurate to roughly a meter within a zone,
// which is enough for deck conformance checks but not for cadastral work.
// UTM and planar points are returned as stored; they are never re-projected.
type TransverseMercator struct{}

// Project implements Projector.
func (TransverseMercator) Project(p SurveyPoint) (UTMCoordinate, error) {
	switch p.Kind {
	case KindGeographic:
		return ProjectToUTM(p.Latitude, p.Longitude), nil
	case KindUTM, KindPlanar:
		return UTMCoordinate{Easting: p.Easting, Northing: p.Northing, Zone: p.UTMZone}, nil
	default:
		return UTMCoordinate{}, fmt.Errorf("project point %s: unknown coordinate kind %q", p.ID, p.Kind)
	}
}

// UTMZone returns the 6° zone number containing the longitude.
func UTMZone(lon float64) int {
	return int(math.Floor((lon+180)/6)) + 1
}

func centralMeridian(zone int) float64 {
	return float64((zone-1)*6 - 180 + 3)
}

// ProjectToUTM converts WGS84 latitude/longitude in decimal degrees to UTM.
// Southern-hemisphere northings carry the 10,000,000 m false northing.
func ProjectToUTM(lat, lon float64) UTMCoordinate {
	zone := UTMZone(lon)

	phi := toRad(lat)
	dLambda := toRad(lon - centralMeridian(zone))

	e2 := wgs84Flattening * (2 - wgs84Flattening)
	ep2 := e2 / (1 - e2)

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := wgs84SemiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := dLambda * cosPhi

	easting := utmScaleFactor*n*(a+(1-t+c)*a*a*a/6) + utmFalseEasting

	northing := utmScaleFactor * meridionalArc(phi)
	if lat < 0 {
		northing += utmFalseNorthingS
	}

	return UTMCoordinate{Easting: easting, Northing: northing, Zone: zone, Southern: lat < 0}
}

// meridionalArc is the distance along the meridian from the equator to phi,
// truncated after the sin(4φ) term. e² is expanded from the flattening.
func meridionalArc(phi float64) float64 {
	e2 := wgs84Flattening * (2 - wgs84Flattening)
	e4 := e2 * e2
	return wgs84SemiMajor * ((1-e2/4-3*e4/64)*phi -
		(3*e2/8+3*e4/32)*math.Sin(2*phi) +
		(15*e4/256)*math.Sin(4*phi))
}

// EstimateZone guesses the UTM zone of a grid coordinate recorded without one.
// The bands cover Brazilian SIRGAS 2000 surveys (zones 23–25 south); outside
// them no estimate is made.
func EstimateZone(easting, northing float64) (int, bool) {
	var zone int
	switch {
	case easting < 300000:
		if northing > 8900000 && northing < 9100000 {
			zone = 24
			if easting < 250000 {
				zone = 25
			}
		}
	case easting < 500000:
		zone = 24
	case easting < 700000:
		zone = 23
	}
	if zone == 0 {
		return 0, false
	}

	lon := centralMeridian(zone) + (easting-utmFalseEasting)/metersPerDegreeLat
	return UTMZone(lon), true
}

// SIRGAS2000EPSG returns the EPSG code of the SIRGAS 2000 / UTM projection for
// the zone, for the zones that datum defines (17S–25S and 18N–22N).
func SIRGAS2000EPSG(zone int, southern bool) (int, bool) {
	if southern {
		if zone < 17 || zone > 25 {
			return 0, false
		}
		return 31960 + zone, true
	}
	if zone < 18 || zone > 22 {
		return 0, false
	}
	return 31954 + zone, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
