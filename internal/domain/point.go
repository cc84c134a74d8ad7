package domain

import (
	"context"
	"time"
)

// CoordKind tags the coordinate frame a survey point was recorded in.
type CoordKind string

const (
	KindGeographic CoordKind = "GEOGRAPHIC"
	KindUTM        CoordKind = "UTM"
	KindPlanar     CoordKind = "PLANAR"
)

// Role identifies a deck corner: side (LD right, LE left) and end (start, final).
type Role string

const (
	RoleLDInicio Role = "LD_INICIO"
	RoleLEInicio Role = "LE_INICIO"
	RoleLDFinal  Role = "LD_FINAL"
	RoleLEFinal  Role = "LE_FINAL"
)

// CornerRoles lists the four deck corners in report order.
var CornerRoles = []Role{RoleLDInicio, RoleLEInicio, RoleLDFinal, RoleLEFinal}

// IsCorner reports whether r is one of the four deck corner roles.
func (r Role) IsCorner() bool {
	switch r {
	case RoleLDInicio, RoleLEInicio, RoleLDFinal, RoleLEFinal:
		return true
	default:
		return false
	}
}

// RawPoint is a survey record as supplied by the ingestion side. Pointer fields
// distinguish "absent" from zero; numeric fields also accept quoted numbers. Easting/Northing are grid coordinates in meters;
// X/Y are local planar coordinates.
type RawPoint struct {
	Role      string    `json:"role,omitempty"`
	Label     string    `json:"label,omitempty"`
	Kind      CoordKind `json:"kind,omitempty"`
	Latitude  *Number   `json:"latitude,omitempty"`
	Longitude *Number   `json:"longitude,omitempty"`
	Easting   *Number   `json:"easting,omitempty"`
	Northing  *Number   `json:"northing,omitempty"`
	X         *Number   `json:"x,omitempty"`
	Y         *Number   `json:"y,omitempty"`
	Elevation *Number   `json:"elevation,omitempty"`
	UTMZone   int       `json:"utm_zone,omitempty"`
}

// SurveyPoint is the canonical, normalized form of a surveyed point. It is a
// plain value; copies never share state.
type SurveyPoint struct {
	ID        Role      `json:"id"`
	Label     string    `json:"label,omitempty"`
	Kind      CoordKind `json:"kind"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Easting   float64   `json:"easting,omitempty"`
	Northing  float64   `json:"northing,omitempty"`
	Elevation float64   `json:"elevation"`
	UTMZone   int       `json:"utm_zone,omitempty"`
}

// cartesian returns the point's stored coordinates as (x, y). Geographic points
// contribute (longitude, latitude); no projection happens here.
func (p SurveyPoint) cartesian() (float64, float64) {
	if p.Kind == KindGeographic {
		return p.Longitude, p.Latitude
	}
	return p.Easting, p.Northing
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
