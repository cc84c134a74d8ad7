// Package domain checks the geometric conformance of surveyed bridge decks.
//
// # Survey Data
//
// A deck (one span of a bridge slab) is surveyed at its four corners. Corners are
// tagged by side and end, following Brazilian survey field notes:
//
//	LD_INICIO  right side (lado direito), start station
//	LE_INICIO  left side (lado esquerdo), start station
//	LD_FINAL   right side, final station
//	LE_FINAL   left side, final station
//
// Label variants seen in the field ("LD INICIO PONTE", "LE_INÍCIO_OAE") are
// resolved to these roles by the ingestion adapter, not here.
//
// # Coordinate Frames
//
// Points arrive in one of three frames:
//
//	GEOGRAPHIC  WGS84 / SIRGAS 2000 latitude and longitude in decimal degrees
//	UTM         easting/northing in meters, usually SIRGAS 2000 zones 22S-25S
//	PLANAR      local site coordinates in meters
//
// Geographic points are projected with a truncated Transverse Mercator series
// before angles are measured; grid points are used as stored. Distances between
// two geographic points use haversine (R = 6,371,000 m). Mixing frames inside one
// pair falls back to a 111320 m/deg approximation, and the report carries a
// MIXED_COORDINATE_APPROXIMATION warning for it.
//
// # Conformance
//
// Inclinations are graded against the transversal (cross-slope, 5%) and
// longitudinal (grade, 2.5%) limits:
//
//	Critical  above the limit (counts as a non-conformity)
//	Warning   above 80% of the limit
//	Moderate  above 50% of the limit
//	Good      otherwise
//
// Comparisons are strict, so a slope exactly at the limit is not Critical.
// The limits and fractions are injected through [Thresholds].
//
// # Skew
//
// Skew (esconsidade) is the deviation of the start transversal from the
// perpendicular to the deck axis, folded into [0, 90] degrees. Above 5 degrees
// the deck is Skewed; a right/left length mismatch above 0.5 m makes it at least
// SlightlySkewed. See [AnalyzeSkew].
//
// # ID Generation
//
// Report IDs are deterministic SHA-256 hashes of the analyzed corners, so replaying
// a survey request produces the same key on the sink topic. See [reportID].
package domain
