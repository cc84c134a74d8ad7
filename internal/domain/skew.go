package domain

import (
	"errors"
	"fmt"
	"math"
)

// Skew and geometry classification thresholds.
const (
	skewedAngleDegrees    = 5.0
	lengthToleranceMeters = 0.5
)

// GeometryClass is the shape the four deck corners describe.
type GeometryClass string

const (
	GeometryRectangle              GeometryClass = "Rectangle"
	GeometryTrapezoid              GeometryClass = "Trapezoid"
	GeometryParallelogram          GeometryClass = "Parallelogram"
	GeometryIrregularQuadrilateral GeometryClass = "IrregularQuadrilateral"
)

// SkewStatus grades how far the deck departs from a right-angled layout.
type SkewStatus string

const (
	SkewNotSkewed      SkewStatus = "NotSkewed"
	SkewSlightlySkewed SkewStatus = "SlightlySkewed"
	SkewSkewed         SkewStatus = "Skewed"
)

// DeckQuadrilateral holds the four surveyed corners of one bridge span.
type DeckQuadrilateral struct {
	Name     string      `json:"name,omitempty"`
	LDInicio SurveyPoint `json:"ld_inicio"`
	LEInicio SurveyPoint `json:"le_inicio"`
	LDFinal  SurveyPoint `json:"ld_final"`
	LEFinal  SurveyPoint `json:"le_final"`
}

// NewDeck builds a deck from a role-keyed point set. Every corner role must be
// present; keys that are not corner roles are ignored.
func NewDeck(name string, points map[Role]SurveyPoint) (DeckQuadrilateral, error) {
	var missing []Role
	for _, r := range CornerRoles {
		if _, ok := points[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return DeckQuadrilateral{}, &IncompleteStructureError{Structure: name, Missing: missing}
	}

	deck := DeckQuadrilateral{Name: name}
	for _, r := range CornerRoles {
		p := points[r]
		p.ID = r
		deck.set(r, p)
	}
	return deck, nil
}

// NewDeckFromPoints builds a deck from points tagged with their role in ID.
// Auxiliary points (supports, river banks) are skipped; a corner given twice
// invalidates the structure.
func NewDeckFromPoints(name string, points ...SurveyPoint) (DeckQuadrilateral, error) {
	byRole := make(map[Role]SurveyPoint, len(CornerRoles))
	var duplicated []Role
	for _, p := range points {
		if !p.ID.IsCorner() {
			continue
		}
		if _, seen := byRole[p.ID]; seen {
			duplicated = append(duplicated, p.ID)
			continue
		}
		byRole[p.ID] = p
	}

	deck, err := NewDeck(name, byRole)
	if len(duplicated) == 0 {
		return deck, err
	}
	se := &IncompleteStructureError{Structure: name, Duplicated: duplicated}
	var ie *IncompleteStructureError
	if errors.As(err, &ie) {
		se.Missing = ie.Missing
	}
	return DeckQuadrilateral{}, se
}

// Validate checks that each corner slot carries a point tagged with its role.
// A zero-valued slot means the corner was never supplied.
func (d DeckQuadrilateral) Validate() error {
	var missing []Role
	for _, r := range CornerRoles {
		if d.Corner(r).ID != r {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &IncompleteStructureError{Structure: d.Name, Missing: missing}
	}
	return nil
}

// Corner returns the point stored for a corner role.
func (d DeckQuadrilateral) Corner(r Role) SurveyPoint {
	switch r {
	case RoleLDInicio:
		return d.LDInicio
	case RoleLEInicio:
		return d.LEInicio
	case RoleLDFinal:
		return d.LDFinal
	case RoleLEFinal:
		return d.LEFinal
	default:
		return SurveyPoint{}
	}
}

// Points returns the four corners in CornerRoles order.
func (d DeckQuadrilateral) Points() []SurveyPoint {
	return []SurveyPoint{d.LDInicio, d.LEInicio, d.LDFinal, d.LEFinal}
}

func (d *DeckQuadrilateral) set(r Role, p SurveyPoint) {
	switch r {
	case RoleLDInicio:
		d.LDInicio = p
	case RoleLEInicio:
		d.LEInicio = p
	case RoleLDFinal:
		d.LDFinal = p
	case RoleLEFinal:
		d.LEFinal = p
	}
}

// SkewResult is the outcome of the skew (esconsidade) analysis of one deck.
type SkewResult struct {
	SkewAngleDegrees        float64       `json:"skew_angle_degrees"`
	AxisAngleDegrees        float64       `json:"axis_angle_degrees"`
	TransversalAngleDegrees float64       `json:"transversal_angle_degrees"`
	WidthAtStart            float64       `json:"width_at_start"`
	WidthAtEnd              float64       `json:"width_at_end"`
	AverageWidth            float64       `json:"average_width"`
	EffectiveWidth          float64       `json:"effective_width"`
	WidthLoss               float64       `json:"width_loss"`
	WidthLossPercentage     float64       `json:"width_loss_percentage"`
	LengthRight             float64       `json:"length_right"`
	LengthLeft              float64       `json:"length_left"`
	LengthDifference        float64       `json:"length_difference"`
	StartDeltaX             float64       `json:"start_delta_x"`
	StartDeltaY             float64       `json:"start_delta_y"`
	EndDeltaX               float64       `json:"end_delta_x"`
	EndDeltaY               float64       `json:"end_delta_y"`
	GeometryClass           GeometryClass `json:"geometry_class"`
	SkewStatus              SkewStatus    `json:"skew_status"`
}

type vec struct{ x, y float64 }

func (a vec) sub(b vec) vec { return vec{a.x - b.x, a.y - b.y} }
func (a vec) norm() float64 { return math.Hypot(a.x, a.y) }
func (a vec) bearing() float64 { return math.Atan2(a.y, a.x) }

// AnalyzeSkew measures the skew of the deck quadrilateral. Geographic corners are
// projected first so that every angle is taken in one Cartesian frame.
func AnalyzeSkew(deck DeckQuadrilateral, projector Projector) (SkewResult, error) {
	if err := deck.Validate(); err != nil {
		return SkewResult{}, err
	}
	if projector == nil {
		projector = TransverseMercator{}
	}

	pos := make(map[Role]vec, len(CornerRoles))
	for _, r := range CornerRoles {
		c, err := projector.Project(deck.Corner(r))
		if err != nil {
			return SkewResult{}, fmt.Errorf("analyze skew: %w", err)
		}
		pos[r] = vec{c.Easting, c.Northing}
	}
	ldI, leI := pos[RoleLDInicio], pos[RoleLEInicio]
	ldF, leF := pos[RoleLDFinal], pos[RoleLEFinal]

	right := ldF.sub(ldI)
	left := leF.sub(leI)
	transversal := leI.sub(ldI)
	endTransversal := leF.sub(ldF)

	axis := toDeg(meanBearing(right.bearing(), left.bearing()))
	trans := toDeg(transversal.bearing())
	skew := foldSkew(math.Abs(trans - (axis + 90)))

	res := SkewResult{
		SkewAngleDegrees:        skew,
		AxisAngleDegrees:        axis,
		TransversalAngleDegrees: trans,
		WidthAtStart:            transversal.norm(),
		WidthAtEnd:              endTransversal.norm(),
		LengthRight:             right.norm(),
		LengthLeft:              left.norm(),
		StartDeltaX:             math.Abs(transversal.x),
		StartDeltaY:             math.Abs(transversal.y),
		EndDeltaX:               math.Abs(endTransversal.x),
		EndDeltaY:               math.Abs(endTransversal.y),
	}
	res.AverageWidth = (res.WidthAtStart + res.WidthAtEnd) / 2
	res.EffectiveWidth = res.AverageWidth * math.Cos(toRad(skew))
	res.WidthLoss = res.AverageWidth - res.EffectiveWidth
	if res.AverageWidth > 0 {
		res.WidthLossPercentage = res.WidthLoss / res.AverageWidth * 100
	}
	res.LengthDifference = math.Abs(res.LengthRight - res.LengthLeft)
	res.SkewStatus, res.GeometryClass = classifyGeometry(skew, res.LengthDifference)

	return res, nil
}

// meanBearing averages two bearings (radians) on the circle, so edges pointing
// at +179° and -179° average to 180° rather than 0°. For bearings less than
// 180° apart this equals the arithmetic mean.
func meanBearing(a, b float64) float64 {
	return math.Atan2(math.Sin(a)+math.Sin(b), math.Cos(a)+math.Cos(b))
}

// foldSkew folds an angular deviation into [0, 90]. The second fold catches
// values that the first reflection pushes negative.
func foldSkew(deg float64) float64 {
	deg = math.Mod(math.Abs(deg), 180)
	if deg > 90 {
		deg = 180 - deg
	}
	deg = math.Abs(deg)
	if deg > 90 {
		deg = 180 - deg
	}
	return deg
}

func classifyGeometry(skew, lengthDiff float64) (SkewStatus, GeometryClass) {
	uneven := lengthDiff > lengthToleranceMeters
	switch {
	case skew > skewedAngleDegrees && uneven:
		return SkewSkewed, GeometryIrregularQuadrilateral
	case skew > skewedAngleDegrees:
		return SkewSkewed, GeometryParallelogram
	case uneven:
		return SkewSlightlySkewed, GeometryTrapezoid
	default:
		return SkewNotSkewed, GeometryRectangle
	}
}
