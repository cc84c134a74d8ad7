package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
	lat    float64
	lon    float64
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (GeocodingResult, error) {
	m.calls++
	m.lat, m.lon = lat, lon
	return m.result, m.err
}

func geoReport() ConformanceReport {
	return ConformanceReport{
		ID:        "deck-1",
		Reference: &ReferencePoint{Role: RoleLDInicio, Kind: KindGeographic, Latitude: -15.79, Longitude: -47.88},
	}
}

func TestEnrichWithLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil geocoder", func(t *testing.T) {
		out := EnrichWithLocation(ctx, geoReport(), nil, discardLogger())
		assert.Empty(t, out.LocationSource)
	})

	t.Run("reverse geocode", func(t *testing.T) {
		geo := &mockGeocoder{result: GeocodingResult{
			FormattedAddress: "Brasília, Distrito Federal, Brazil",
			PlaceName:        "Brasília",
		}}

		out := EnrichWithLocation(ctx, geoReport(), geo, discardLogger())

		assert.Equal(t, "Brasília", out.LocationName)
		assert.Equal(t, "Brasília, Distrito Federal, Brazil", out.FormattedAddress)
		assert.Equal(t, LocationSourceReverse, out.LocationSource)
		assert.Equal(t, 1, geo.calls)
		assert.InDelta(t, -15.79, geo.lat, 0)
		assert.InDelta(t, -47.88, geo.lon, 0)
	})

	t.Run("geocoder error degrades", func(t *testing.T) {
		geo := &mockGeocoder{err: errors.New("timeout")}

		out := EnrichWithLocation(ctx, geoReport(), geo, discardLogger())

		assert.Equal(t, LocationSourceFailed, out.LocationSource)
		assert.Empty(t, out.FormattedAddress)
	})

	t.Run("empty result keeps original", func(t *testing.T) {
		geo := &mockGeocoder{}

		out := EnrichWithLocation(ctx, geoReport(), geo, discardLogger())

		assert.Equal(t, LocationSourceOriginal, out.LocationSource)
	})

	t.Run("grid reference is not geocoded", func(t *testing.T) {
		geo := &mockGeocoder{}
		report := ConformanceReport{Reference: &ReferencePoint{Role: RoleLDInicio, Kind: KindUTM}}

		out := EnrichWithLocation(ctx, report, geo, discardLogger())

		assert.Equal(t, LocationSourceOriginal, out.LocationSource)
		assert.Zero(t, geo.calls)
	})
}
