package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name        string
		p1, p2      SurveyPoint
		want        float64
		delta       float64
		approximate bool
	}{
		{
			name:  "same point",
			p1:    planar(RoleLDInicio, 3, 4, 0),
			p2:    planar(RoleLDInicio, 3, 4, 0),
			want:  0,
			delta: 1e-12,
		},
		{
			name:  "planar euclidean",
			p1:    planar(RoleLDInicio, 0, 0, 0),
			p2:    planar(RoleLEInicio, 3, 4, 0),
			want:  5,
			delta: 1e-12,
		},
		{
			name:  "utm euclidean",
			p1:    SurveyPoint{Kind: KindUTM, Easting: 500000, Northing: 8000000},
			p2:    SurveyPoint{Kind: KindUTM, Easting: 500003, Northing: 8000004},
			want:  5,
			delta: 1e-9,
		},
		{
			name:  "one degree of latitude by haversine",
			p1:    geographic(RoleLDInicio, 0, 0, 0),
			p2:    geographic(RoleLDFinal, 1, 0, 0),
			want:  111194.93,
			delta: 0.01,
		},
		{
			name:        "mixed frames with degree-like values",
			p1:          geographic(RoleLDInicio, -15.79, -47.88, 0),
			p2:          SurveyPoint{Kind: KindPlanar, Easting: -47.87, Northing: -15.79},
			want:        1071.19,
			delta:       0.05,
			approximate: true,
		},
		{
			name:        "mixed frames with grid values",
			p1:          SurveyPoint{Kind: KindUTM, Easting: 300, Northing: 400},
			p2:          SurveyPoint{Kind: KindPlanar, Easting: 0, Northing: 0},
			want:        500,
			delta:       1e-9,
			approximate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			assert.InDelta(t, tt.want, got.Meters, tt.delta)
			assert.Equal(t, tt.approximate, got.Approximate)

			back := Distance(tt.p2, tt.p1)
			assert.InDelta(t, got.Meters, back.Meters, 1e-9, "distance must be symmetric")
		})
	}
}

func TestDistance_MixedFrameTracksHaversine(t *testing.T) {
	geo := geographic(RoleLDInicio, -15.79, -47.88, 0)
	plane := SurveyPoint{Kind: KindPlanar, Easting: -47.87, Northing: -15.79}

	got := Distance(geo, plane)
	exact := haversine(-15.79, -47.88, -15.79, -47.87)

	// The flat-earth fallback drifts about 0.11% from the great circle here.
	assert.True(t, got.Approximate)
	assert.InEpsilon(t, exact, got.Meters, 0.003)
}

func TestElevationDifference(t *testing.T) {
	p1 := planar(RoleLDInicio, 0, 0, 100.25)
	p2 := planar(RoleLDFinal, 10, 0, 101)

	assert.InDelta(t, 0.75, ElevationDifference(p1, p2), 1e-12)
	assert.InDelta(t, -0.75, ElevationDifference(p2, p1), 1e-12)
}

func TestInclination(t *testing.T) {
	t.Run("ascending six percent", func(t *testing.T) {
		res := Inclination(planar(RoleLDInicio, 0, 0, 0), planar(RoleLEInicio, 0, 10, 0.6))

		assert.InDelta(t, 6.0, res.Percentage, 1e-9)
		assert.InDelta(t, 3.4336, res.Degrees, 1e-4)
		assert.Equal(t, "1:16.7", res.Ratio)
		assert.Equal(t, DirectionAscending, res.Direction)
		assert.InDelta(t, 10.0, res.Distance, 1e-12)
		assert.InDelta(t, 0.6, res.ElevationDifference, 1e-12)
		assert.False(t, res.Approximate)
	})

	t.Run("reverse order descends with same magnitude", func(t *testing.T) {
		res := Inclination(planar(RoleLEInicio, 0, 10, 0.6), planar(RoleLDInicio, 0, 0, 0))

		assert.InDelta(t, 6.0, res.Percentage, 1e-9)
		assert.Equal(t, DirectionDescending, res.Direction)
		assert.InDelta(t, -0.6, res.ElevationDifference, 1e-12)
	})

	t.Run("level pair", func(t *testing.T) {
		res := Inclination(planar(RoleLDInicio, 0, 0, 5), planar(RoleLDFinal, 100, 0, 5))

		assert.Zero(t, res.Percentage)
		assert.Zero(t, res.Degrees)
		assert.Equal(t, "0:1", res.Ratio)
		assert.Equal(t, DirectionLevel, res.Direction)
	})

	t.Run("coincident points do not divide by zero", func(t *testing.T) {
		res := Inclination(planar(RoleLDInicio, 7, 7, 1), planar(RoleLDInicio, 7, 7, 3))

		assert.Zero(t, res.Percentage)
		assert.Zero(t, res.Degrees)
		assert.Equal(t, "0:1", res.Ratio)
		assert.Equal(t, DirectionAscending, res.Direction)
	})

	t.Run("mixed frames are flagged", func(t *testing.T) {
		res := Inclination(
			SurveyPoint{Kind: KindUTM, Easting: 300, Northing: 400, Elevation: 0},
			SurveyPoint{Kind: KindPlanar, Elevation: 5},
		)

		assert.True(t, res.Approximate)
		assert.InDelta(t, 1.0, res.Percentage, 1e-9)
	})
}
