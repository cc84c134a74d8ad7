package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Analyze_SingleRectangle(t *testing.T) {
	fixedTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	report, err := NewAnalyzer().Analyze(rectDeck("", 0, 0), nil)
	require.NoError(t, err)

	require.Len(t, report.Decks, 1)
	deck := report.Decks[0]
	assert.Equal(t, "deck 1", deck.Name)
	assert.InDelta(t, 10.0, deck.AverageWidth, 1e-12)
	assert.InDelta(t, 100.0, deck.AverageLength, 1e-12)
	assert.InDelta(t, 0.0, deck.Skew.SkewAngleDegrees, 1e-9)
	assert.Nil(t, deck.Zone)

	require.Len(t, deck.Checks, 4)
	names := make([]string, 0, len(deck.Checks))
	for _, c := range deck.Checks {
		names = append(names, c.Name)
		assert.Zero(t, c.Inclination.Percentage, c.Name)
		assert.Equal(t, TierGood, c.Status.Tier, c.Name)
	}
	assert.Equal(t, []string{"transversal_start", "transversal_end", "longitudinal_right", "longitudinal_left"}, names)
	assert.Equal(t, AxisTransversal, deck.Checks[0].Status.Axis)
	assert.Equal(t, AxisLongitudinal, deck.Checks[2].Status.Axis)

	assert.Nil(t, report.Cross)
	assert.Zero(t, report.TotalNonConformities)
	assert.True(t, report.IsConformant)
	assert.Empty(t, report.NonConformities)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, DefaultThresholds(), report.Thresholds)
	assert.Equal(t, fixedTime, report.GeneratedAt)
	assert.True(t, strings.HasPrefix(report.ID, "deck-"))
	require.NotNil(t, report.Reference)
	assert.Equal(t, RoleLDInicio, report.Reference.Role)
	assert.False(t, report.Reference.Geographic())
}

func TestAnalyzer_Analyze_TransversalOverLimit(t *testing.T) {
	deck := rectDeck("span 1", 0, 0)
	deck.LEInicio.Elevation = 0.6

	report, err := NewAnalyzer().Analyze(deck, nil)
	require.NoError(t, err)

	start := report.Decks[0].Checks[0]
	assert.Equal(t, "transversal_start", start.Name)
	assert.InDelta(t, 6.0, start.Inclination.Percentage, 1e-9)
	assert.Equal(t, TierCritical, start.Status.Tier)

	left := report.Decks[0].Checks[3]
	assert.InDelta(t, 0.6, left.Inclination.Percentage, 1e-9)
	assert.Equal(t, TierGood, left.Status.Tier)

	assert.Equal(t, 1, report.Decks[0].NonConformities)
	assert.Equal(t, 1, report.TotalNonConformities)
	assert.False(t, report.IsConformant)
	assert.Equal(t, []string{"span 1: transversal start (LD_INICIO -> LE_INICIO)"}, report.NonConformities)
}

func TestAnalyzer_Analyze_TwoDecks(t *testing.T) {
	deckA := rectDeck("span 1", 0, 0)
	deckB := rectDeck("span 2", 120, 5)

	report, err := NewAnalyzer().Analyze(deckA, &deckB)
	require.NoError(t, err)

	require.Len(t, report.Decks, 2)
	assert.Zero(t, report.Decks[0].NonConformities)
	assert.Zero(t, report.Decks[1].NonConformities)

	require.NotNil(t, report.Cross)
	j := report.Cross.Junction
	assert.Equal(t, RoleLEInicio, j.From)
	assert.Equal(t, RoleLDInicio, j.To)
	assert.InDelta(t, 120.41595, j.Inclination.Distance, 1e-4)
	assert.InDelta(t, 5.0, j.Inclination.ElevationDifference, 1e-12)
	assert.InDelta(t, 4.15227, j.Inclination.Percentage, 1e-4)
	assert.Equal(t, AxisLongitudinal, j.Status.Axis)
	assert.Equal(t, TierCritical, j.Status.Tier)

	assert.InDelta(t, 120.0, report.Cross.DeltaX, 1e-12)
	assert.InDelta(t, 10.0, report.Cross.DeltaY, 1e-12)
	assert.InDelta(t, 0.0, report.Cross.WidthDifference, 1e-12)
	assert.InDelta(t, 0.0, report.Cross.LengthDifference, 1e-12)
	assert.InDelta(t, 10.0, report.Cross.MeanWidth, 1e-12)
	assert.InDelta(t, 100.0, report.Cross.MeanLength, 1e-12)
	assert.InDelta(t, 0.0, report.Cross.MeanSkewAngle, 1e-9)
	assert.InDelta(t, 10.0, report.Cross.MeanEffectiveWidth, 1e-9)

	assert.Equal(t, 1, report.TotalNonConformities)
	assert.False(t, report.IsConformant)
	require.Len(t, report.NonConformities, 1)
	assert.Contains(t, report.NonConformities[0], "junction")
}

func TestAnalyzer_Analyze_Differentials(t *testing.T) {
	deckA := rectDeck("span 1", 0, 0)
	deckB := DeckQuadrilateral{
		Name:     "span 2",
		LDInicio: planar(RoleLDInicio, 100, 0, 0),
		LEInicio: planar(RoleLEInicio, 100, 12, 0),
		LDFinal:  planar(RoleLDFinal, 180, 0, 0),
		LEFinal:  planar(RoleLEFinal, 180, 12, 0),
	}

	report, err := NewAnalyzer().Analyze(deckA, &deckB)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, report.Cross.WidthDifference, 1e-12)
	assert.InDelta(t, 20.0, report.Cross.LengthDifference, 1e-12)
	assert.InDelta(t, 11.0, report.Cross.MeanWidth, 1e-12)
	assert.InDelta(t, 90.0, report.Cross.MeanLength, 1e-12)
	assert.True(t, report.IsConformant)
}

func TestAnalyzer_Analyze_MixedFramesWarn(t *testing.T) {
	deck := rectDeck("span", 0, 0)
	deck.LEFinal.Kind = KindUTM

	report, err := NewAnalyzer().Analyze(deck, nil)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 2)
	for _, w := range report.Warnings {
		assert.Equal(t, WarningMixedCoordinateApproximation, w.Code)
		assert.Contains(t, w.Pair, "LE_FINAL")
	}
}

func TestAnalyzer_Analyze_GeographicZone(t *testing.T) {
	const dLat = 10.0 / 110780
	const dLon = 100.0 / 107140
	deck := DeckQuadrilateral{
		LDInicio: geographic(RoleLDInicio, -15.79, -47.88, 1000),
		LEInicio: geographic(RoleLEInicio, -15.79+dLat, -47.88, 1000),
		LDFinal:  geographic(RoleLDFinal, -15.79, -47.88+dLon, 1000),
		LEFinal:  geographic(RoleLEFinal, -15.79+dLat, -47.88+dLon, 1000),
	}

	report, err := NewAnalyzer().Analyze(deck, nil)
	require.NoError(t, err)

	zone := report.Decks[0].Zone
	require.NotNil(t, zone)
	assert.Equal(t, ZoneInfo{Zone: 23, Southern: true, EPSG: 31983}, *zone)

	require.NotNil(t, report.Reference)
	assert.True(t, report.Reference.Geographic())
	assert.InDelta(t, -15.79, report.Reference.Latitude, 0)
	assert.InDelta(t, -47.88, report.Reference.Longitude, 0)
	assert.InDelta(t, 10.0, report.Decks[0].AverageWidth, 0.1)
	assert.Empty(t, report.Warnings)
}

func TestAnalyzer_Analyze_UTMZone(t *testing.T) {
	utm := func(role Role, e, n float64, zone int) SurveyPoint {
		return SurveyPoint{ID: role, Kind: KindUTM, Easting: e, Northing: n, Elevation: 900, UTMZone: zone}
	}

	t.Run("explicit zone", func(t *testing.T) {
		deck := DeckQuadrilateral{
			LDInicio: utm(RoleLDInicio, 191400, 8254300, 22),
			LEInicio: utm(RoleLEInicio, 191400, 8254310, 22),
			LDFinal:  utm(RoleLDFinal, 191500, 8254300, 22),
			LEFinal:  utm(RoleLEFinal, 191500, 8254310, 22),
		}
		report, err := NewAnalyzer().Analyze(deck, nil)
		require.NoError(t, err)
		assert.Equal(t, &ZoneInfo{Zone: 22, Southern: true, EPSG: 31982}, report.Decks[0].Zone)
	})

	t.Run("estimated zone", func(t *testing.T) {
		deck := DeckQuadrilateral{
			LDInicio: utm(RoleLDInicio, 600000, 8250000, 0),
			LEInicio: utm(RoleLEInicio, 600000, 8250010, 0),
			LDFinal:  utm(RoleLDFinal, 600100, 8250000, 0),
			LEFinal:  utm(RoleLEFinal, 600100, 8250010, 0),
		}
		report, err := NewAnalyzer().Analyze(deck, nil)
		require.NoError(t, err)
		assert.Equal(t, &ZoneInfo{Zone: 23, Southern: true, EPSG: 31983, Estimated: true}, report.Decks[0].Zone)
	})
}

func TestAnalyzer_Analyze_IncompleteDeck(t *testing.T) {
	deckA := rectDeck("span 1", 0, 0)
	deckB := rectDeck("span 2", 120, 0)
	deckB.LDFinal = SurveyPoint{}

	_, err := NewAnalyzer().Analyze(deckA, &deckB)
	require.Error(t, err)

	var ise *IncompleteStructureError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "span 2", ise.Structure)
	assert.Equal(t, []Role{RoleLDFinal}, ise.Missing)
}

func TestAnalyzer_Analyze_DeterministicID(t *testing.T) {
	a := NewAnalyzer()

	r1, err := a.Analyze(rectDeck("span", 0, 0), nil)
	require.NoError(t, err)
	r2, err := a.Analyze(rectDeck("span", 0, 0), nil)
	require.NoError(t, err)
	r3, err := a.Analyze(rectDeck("span", 0, 0.01), nil)
	require.NoError(t, err)

	assert.Equal(t, r1.ID, r2.ID)
	assert.NotEqual(t, r1.ID, r3.ID)
	assert.Len(t, r1.ID, len("deck-")+16)
}

func TestAnalyzer_WithThresholds(t *testing.T) {
	th := Thresholds{Transversal: 7, Longitudinal: 3, WarningFraction: 0.8, ModerateFraction: 0.5}
	deck := rectDeck("span", 0, 0)
	deck.LEInicio.Elevation = 0.6

	a := NewAnalyzer(WithThresholds(th), WithProjector(nil))
	report, err := a.Analyze(deck, nil)
	require.NoError(t, err)

	assert.Equal(t, th, a.Thresholds())
	assert.Equal(t, th, report.Thresholds)
	assert.Equal(t, TierWarning, report.Decks[0].Checks[0].Status.Tier)
	assert.True(t, report.IsConformant)
}

type shiftProjector struct{ dx float64 }

func (s shiftProjector) Project(p SurveyPoint) (UTMCoordinate, error) {
	return UTMCoordinate{Easting: p.Easting + s.dx, Northing: p.Northing}, nil
}

func TestAnalyzer_WithProjector(t *testing.T) {
	deckA := rectDeck("span 1", 0, 0)
	deckB := rectDeck("span 2", 120, 0)

	report, err := NewAnalyzer(WithProjector(shiftProjector{dx: 1000})).Analyze(deckA, &deckB)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, report.Cross.DeltaX, 1e-9)
	assert.InDelta(t, 0.0, report.Decks[1].Skew.SkewAngleDegrees, 1e-9)
}

func TestAnalyzer_ZeroValue(t *testing.T) {
	deckA := rectDeck("span 1", 0, 0)
	deckB := rectDeck("span 2", 120, 5)

	var a Analyzer
	var report ConformanceReport
	require.NotPanics(t, func() {
		var err error
		report, err = a.Analyze(deckA, &deckB)
		require.NoError(t, err)
	})

	require.NotNil(t, report.Cross)
	assert.InDelta(t, 120.0, report.Cross.DeltaX, 1e-12)
	assert.InDelta(t, 10.0, report.Cross.DeltaY, 1e-12)
	assert.Equal(t, DefaultThresholds(), report.Thresholds)
	assert.Equal(t, TierCritical, report.Cross.Junction.Status.Tier)
}
