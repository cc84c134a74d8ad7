package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// PairCheck is the inclination between two corners graded against one axis limit.
type PairCheck struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	From        Role              `json:"from"`
	To          Role              `json:"to"`
	Inclination InclinationResult `json:"inclination"`
	Status      ConformanceStatus `json:"status"`
}

// ZoneInfo describes the SIRGAS 2000 / UTM zone a deck was surveyed in.
type ZoneInfo struct {
	Zone      int  `json:"zone"`
	Southern  bool `json:"southern"`
	EPSG      int  `json:"epsg,omitempty"`
	Estimated bool `json:"estimated,omitempty"`
}

// DeckReport aggregates the metrics of a single deck.
type DeckReport struct {
	Name            string      `json:"name,omitempty"`
	AverageWidth    float64     `json:"average_width"`
	AverageLength   float64     `json:"average_length"`
	Checks          []PairCheck `json:"checks"`
	Skew            SkewResult  `json:"skew"`
	Zone            *ZoneInfo   `json:"zone,omitempty"`
	NonConformities int         `json:"non_conformities"`
}

// CrossDeckReport compares two consecutive spans across their junction.
type CrossDeckReport struct {
	Junction           PairCheck `json:"junction"`
	DeltaX             float64   `json:"delta_x"`
	DeltaY             float64   `json:"delta_y"`
	WidthDifference    float64   `json:"width_difference"`
	LengthDifference   float64   `json:"length_difference"`
	MeanWidth          float64   `json:"mean_width"`
	MeanLength         float64   `json:"mean_length"`
	MeanSkewAngle      float64   `json:"mean_skew_angle"`
	MeanEffectiveWidth float64   `json:"mean_effective_width"`
}

// ReferencePoint is the corner used to place the structure on a map.
type ReferencePoint struct {
	Role      Role      `json:"role"`
	Kind      CoordKind `json:"kind"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
}

// Geographic reports whether the reference carries latitude/longitude.
func (r ReferencePoint) Geographic() bool {
	return r.Kind == KindGeographic
}

// ConformanceReport is the full outcome of one analysis request.
type ConformanceReport struct {
	ID                   string           `json:"id"`
	RequestID            string           `json:"request_id,omitempty"`
	Decks                []DeckReport     `json:"decks"`
	Cross                *CrossDeckReport `json:"cross,omitempty"`
	TotalNonConformities int              `json:"total_non_conformities"`
	IsConformant         bool             `json:"is_conformant"`
	NonConformities      []string         `json:"non_conformities,omitempty"`
	Warnings             []Warning        `json:"warnings,omitempty"`
	Reference            *ReferencePoint  `json:"reference,omitempty"`
	Thresholds           Thresholds       `json:"thresholds"`

	// Location enrichment fields.
	LocationName     string `json:"location_name,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	LocationSource   string `json:"location_source,omitempty"` // "reverse", "original", "failed"

	GeneratedAt time.Time `json:"generated_at"`
}

// Analyzer runs the comparative analysis with an injected projector and
// threshold profile. The zero value uses TransverseMercator and DefaultThresholds.
type Analyzer struct {
	projector  Projector
	thresholds Thresholds
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithProjector replaces the default TransverseMercator projector.
func WithProjector(p Projector) AnalyzerOption {
	return func(a *Analyzer) {
		if p != nil {
			a.projector = p
		}
	}
}

// WithThresholds replaces DefaultThresholds.
func WithThresholds(th Thresholds) AnalyzerOption {
	return func(a *Analyzer) { a.thresholds = th }
}

// NewAnalyzer returns an Analyzer using the default projector and thresholds
// unless overridden.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{projector: TransverseMercator{}, thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Thresholds returns the threshold profile the analyzer grades against.
func (a *Analyzer) Thresholds() Thresholds {
	if a.thresholds == (Thresholds{}) {
		return DefaultThresholds()
	}
	return a.thresholds
}

func (a *Analyzer) projection() Projector {
	if a.projector == nil {
		return TransverseMercator{}
	}
	return a.projector
}

// Analyze builds the conformance report for deckA and, when given, the next
// span deckB. The junction runs from deckA's LE_INICIO to deckB's LD_INICIO.
func (a *Analyzer) Analyze(deckA DeckQuadrilateral, deckB *DeckQuadrilateral) (ConformanceReport, error) {
	report := ConformanceReport{Thresholds: a.Thresholds()}
	warned := make(map[string]bool)

	decks := []DeckQuadrilateral{deckA}
	if deckB != nil {
		decks = append(decks, *deckB)
	}

	for i := range decks {
		if decks[i].Name == "" {
			decks[i].Name = fmt.Sprintf("deck %d", i+1)
		}
	}

	for _, deck := range decks {
		dr, err := a.analyzeDeck(deck, &report, warned)
		if err != nil {
			return ConformanceReport{}, err
		}
		report.Decks = append(report.Decks, dr)
		report.TotalNonConformities += dr.NonConformities
	}

	if deckB != nil {
		cross := a.crossDeck(decks[0], decks[1], report.Decks[0], report.Decks[1])
		report.Cross = &cross
		a.noteApproximation(&report, warned, cross.Junction)
		if cross.Junction.Status.NonConforming() {
			report.TotalNonConformities++
			report.NonConformities = append(report.NonConformities, cross.Junction.Label)
		}
	}

	report.IsConformant = report.TotalNonConformities == 0
	report.Reference = referencePoint(deckA)
	report.ID = reportID(decks)
	report.GeneratedAt = clock.Now().UTC()
	return report, nil
}

func (a *Analyzer) analyzeDeck(deck DeckQuadrilateral, report *ConformanceReport, warned map[string]bool) (DeckReport, error) {
	skew, err := AnalyzeSkew(deck, a.projection())
	if err != nil {
		return DeckReport{}, err
	}

	widthStart := Distance(deck.LDInicio, deck.LEInicio)
	widthEnd := Distance(deck.LDFinal, deck.LEFinal)
	lengthRight := Distance(deck.LDInicio, deck.LDFinal)
	lengthLeft := Distance(deck.LEInicio, deck.LEFinal)

	dr := DeckReport{
		Name:          deck.Name,
		AverageWidth:  (widthStart.Meters + widthEnd.Meters) / 2,
		AverageLength: (lengthRight.Meters + lengthLeft.Meters) / 2,
		Skew:          skew,
		Zone:          zoneOf(deck.LDInicio),
		Checks: []PairCheck{
			a.check(deck, "transversal_start", "transversal start", deck.LDInicio, deck.LEInicio, AxisTransversal),
			a.check(deck, "transversal_end", "transversal end", deck.LDFinal, deck.LEFinal, AxisTransversal),
			a.check(deck, "longitudinal_right", "longitudinal right", deck.LDInicio, deck.LDFinal, AxisLongitudinal),
			a.check(deck, "longitudinal_left", "longitudinal left", deck.LEInicio, deck.LEFinal, AxisLongitudinal),
		},
	}
	for _, c := range dr.Checks {
		a.noteApproximation(report, warned, c)
		if c.Status.NonConforming() {
			dr.NonConformities++
			report.NonConformities = append(report.NonConformities, c.Label)
		}
	}
	return dr, nil
}

func (a *Analyzer) check(deck DeckQuadrilateral, name, label string, from, to SurveyPoint, axis Axis) PairCheck {
	incl := Inclination(from, to)
	return PairCheck{
		Name:        name,
		Label:       fmt.Sprintf("%s: %s (%s -> %s)", deck.Name, label, from.ID, to.ID),
		From:        from.ID,
		To:          to.ID,
		Inclination: incl,
		Status:      Classify(incl, axis, a.Thresholds()),
	}
}

func (a *Analyzer) crossDeck(deckA, deckB DeckQuadrilateral, ra, rb DeckReport) CrossDeckReport {
	from, to := deckA.LEInicio, deckB.LDInicio
	incl := Inclination(from, to)
	junction := PairCheck{
		Name:        "junction",
		Label:       fmt.Sprintf("junction: %s %s -> %s %s", deckA.Name, from.ID, deckB.Name, to.ID),
		From:        from.ID,
		To:          to.ID,
		Inclination: incl,
		Status:      Classify(incl, AxisLongitudinal, a.Thresholds()),
	}

	cross := CrossDeckReport{
		Junction:           junction,
		WidthDifference:    math.Abs(ra.AverageWidth - rb.AverageWidth),
		LengthDifference:   math.Abs(ra.AverageLength - rb.AverageLength),
		MeanWidth:          (ra.AverageWidth + rb.AverageWidth) / 2,
		MeanLength:         (ra.AverageLength + rb.AverageLength) / 2,
		MeanSkewAngle:      (ra.Skew.SkewAngleDegrees + rb.Skew.SkewAngleDegrees) / 2,
		MeanEffectiveWidth: (ra.Skew.EffectiveWidth + rb.Skew.EffectiveWidth) / 2,
	}
	proj := a.projection()
	if ca, errA := proj.Project(from); errA == nil {
		if cb, errB := proj.Project(to); errB == nil {
			cross.DeltaX = math.Abs(cb.Easting - ca.Easting)
			cross.DeltaY = math.Abs(cb.Northing - ca.Northing)
		}
	}
	return cross
}

func (a *Analyzer) noteApproximation(report *ConformanceReport, warned map[string]bool, c PairCheck) {
	if !c.Inclination.Approximate || warned[c.Label] {
		return
	}
	warned[c.Label] = true
	report.Warnings = append(report.Warnings, Warning{
		Code:    WarningMixedCoordinateApproximation,
		Pair:    c.Label,
		Message: "points are in different coordinate frames; distance uses the 111320 m/deg approximation",
	})
}

// zoneOf reports the UTM zone of a corner: computed for geographic points,
// stored or estimated for grid points, unknown for planar ones.
func zoneOf(p SurveyPoint) *ZoneInfo {
	var zi ZoneInfo
	switch p.Kind {
	case KindGeographic:
		zi = ZoneInfo{Zone: UTMZone(p.Longitude), Southern: p.Latitude < 0}
	case KindUTM:
		if p.UTMZone > 0 {
			zi = ZoneInfo{Zone: p.UTMZone, Southern: true}
		} else if z, ok := EstimateZone(p.Easting, p.Northing); ok {
			zi = ZoneInfo{Zone: z, Southern: true, Estimated: true}
		} else {
			return nil
		}
	default:
		return nil
	}
	if epsg, ok := SIRGAS2000EPSG(zi.Zone, zi.Southern); ok {
		zi.EPSG = epsg
	}
	return &zi
}

// referencePoint picks LD_INICIO, falling back to LE_INICIO when the first
// corner is the zero value.
func referencePoint(deck DeckQuadrilateral) *ReferencePoint {
	p := deck.LDInicio
	if p.ID == "" {
		p = deck.LEInicio
	}
	if p.ID == "" {
		return nil
	}
	ref := &ReferencePoint{Role: p.ID, Kind: p.Kind}
	if p.Kind == KindGeographic {
		ref.Latitude, ref.Longitude = p.Latitude, p.Longitude
	}
	return ref
}

// reportID hashes the analyzed corners so that replaying the same survey yields
// the same report ID.
func reportID(decks []DeckQuadrilateral) string {
	var b strings.Builder
	for _, d := range decks {
		for _, p := range d.Points() {
			fmt.Fprintf(&b, "%s|%s|%.6f|%.6f|%.3f|%.3f|%.3f;",
				p.ID, p.Kind, p.Latitude, p.Longitude, p.Easting, p.Northing, p.Elevation)
		}
	}
	hash := sha256.Sum256([]byte(b.String()))
	return "deck-" + hex.EncodeToString(hash[:8])
}
