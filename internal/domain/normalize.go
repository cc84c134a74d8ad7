package domain

import (
	"math"
	"strings"
)

// gridMagnitude separates projected grid coordinates (UTM eastings/northings are
// hundreds of thousands of meters) from small local planar values.
const gridMagnitude = 1000.0

// Normalize validates a raw survey record and returns its canonical SurveyPoint.
//
// Without a kind hint the frame is inferred: a latitude/longitude pair within
// [-90,90]/[-180,180] is GEOGRAPHIC; easting/northing with a magnitude above 1000 m
// is UTM; anything else (small eastings, or X/Y fields) is PLANAR.
func Normalize(raw RawPoint) (SurveyPoint, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw.Role)))

	if raw.Elevation == nil {
		return SurveyPoint{}, &InvalidPointError{Role: role, Field: "elevation", Reason: "is missing"}
	}
	if !raw.Elevation.valid() {
		return SurveyPoint{}, &InvalidPointError{Role: role, Field: "elevation", Reason: "is not a number"}
	}

	hasGeo := raw.Latitude != nil && raw.Longitude != nil
	hasGrid := raw.Easting != nil && raw.Northing != nil
	hasXY := raw.X != nil && raw.Y != nil

	kind := canonicalKind(raw.Kind)
	if kind == "" {
		kind = inferKind(raw, hasGeo, hasGrid, hasXY)
	}

	p := SurveyPoint{
		ID:        role,
		Label:     raw.Label,
		Kind:      kind,
		Elevation: raw.Elevation.Value,
		UTMZone:   raw.UTMZone,
	}

	switch kind {
	case KindGeographic:
		if !hasGeo {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "latitude/longitude", Reason: "is missing"}
		}
		if !raw.Latitude.valid() || !raw.Longitude.valid() {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "latitude/longitude", Reason: "is not a number"}
		}
		lat, lon := raw.Latitude.Value, raw.Longitude.Value
		if lat < -90 || lat > 90 {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "latitude", Reason: "is outside [-90, 90]"}
		}
		if lon < -180 || lon > 180 {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "longitude", Reason: "is outside [-180, 180]"}
		}
		p.Latitude, p.Longitude = lat, lon
	case KindUTM, KindPlanar:
		e, n, ok := gridPair(raw, hasGrid, hasXY)
		if !ok {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "easting/northing", Reason: "is missing"}
		}
		if !e.valid() || !n.valid() {
			return SurveyPoint{}, &InvalidPointError{Role: role, Field: "easting/northing", Reason: "is not a number"}
		}
		p.Easting, p.Northing = e.Value, n.Value
	default:
		return SurveyPoint{}, &InvalidPointError{Role: role, Field: "kind", Reason: "is not GEOGRAPHIC, UTM or PLANAR"}
	}

	return p, nil
}

// canonicalKind folds a kind hint to upper case and expands the short forms
// GEO and PLANE. Unknown hints pass through for Normalize to reject.
func canonicalKind(k CoordKind) CoordKind {
	switch s := CoordKind(strings.ToUpper(strings.TrimSpace(string(k)))); s {
	case "GEO":
		return KindGeographic
	case "PLANE":
		return KindPlanar
	default:
		return s
	}
}

func inferKind(raw RawPoint, hasGeo, hasGrid, hasXY bool) CoordKind {
	if hasGeo && math.Abs(raw.Longitude.Value) <= 180 && math.Abs(raw.Latitude.Value) <= 90 {
		return KindGeographic
	}
	if hasGrid {
		if math.Abs(raw.Easting.Value) > gridMagnitude || math.Abs(raw.Northing.Value) > gridMagnitude {
			return KindUTM
		}
		return KindPlanar
	}
	if hasXY {
		return KindPlanar
	}
	if hasGeo {
		// Out-of-range degrees; the GEOGRAPHIC branch reports which one.
		return KindGeographic
	}
	return KindPlanar
}

// gridPair prefers explicit easting/northing over generic X/Y.
func gridPair(raw RawPoint, hasGrid, hasXY bool) (*Number, *Number, bool) {
	switch {
	case hasGrid:
		return raw.Easting, raw.Northing, true
	case hasXY:
		return raw.X, raw.Y, true
	default:
		return nil, nil, false
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
