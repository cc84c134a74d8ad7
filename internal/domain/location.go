package domain

import (
	"context"
	"log/slog"
)

// Location sources recorded on an enriched report.
const (
	LocationSourceReverse  = "reverse"
	LocationSourceOriginal = "original"
	LocationSourceFailed   = "failed"
)

// EnrichWithLocation names the place the structure sits in by reverse
// geocoding the report's reference corner. If geocoder is nil the report is
// returned untouched; lookup failures only set LocationSource (graceful degradation).
func EnrichWithLocation(ctx context.Context, report ConformanceReport, geocoder Geocoder, logger *slog.Logger) ConformanceReport {
	if geocoder == nil {
		return report
	}

	ref := report.Reference
	if ref == nil || !ref.Geographic() {
		report.LocationSource = LocationSourceOriginal
		return report
	}

	result, err := geocoder.ReverseGeocode(ctx, ref.Latitude, ref.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"report_id", report.ID,
			"lat", ref.Latitude,
			"lon", ref.Longitude,
			"error", err,
		)
		report.LocationSource = LocationSourceFailed
		return report
	}
	if result.FormattedAddress == "" {
		report.LocationSource = LocationSourceOriginal
		return report
	}

	report.LocationName = result.PlaceName
	report.FormattedAddress = result.FormattedAddress
	report.LocationSource = LocationSourceReverse
	return report
}
