package domain

import (
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func f64(v float64) *Number { return NumberOf(v) }

func planar(role Role, x, y, elev float64) SurveyPoint {
	return SurveyPoint{ID: role, Kind: KindPlanar, Easting: x, Northing: y, Elevation: elev}
}

func geographic(role Role, lat, lon, elev float64) SurveyPoint {
	return SurveyPoint{ID: role, Kind: KindGeographic, Latitude: lat, Longitude: lon, Elevation: elev}
}

// rectDeck is a 100 m x 10 m deck along the x axis, all corners at elev.
func rectDeck(name string, offsetX, elev float64) DeckQuadrilateral {
	return DeckQuadrilateral{
		Name:     name,
		LDInicio: planar(RoleLDInicio, offsetX, 0, elev),
		LEInicio: planar(RoleLEInicio, offsetX, 10, elev),
		LDFinal:  planar(RoleLDFinal, offsetX+100, 0, elev),
		LEFinal:  planar(RoleLEFinal, offsetX+100, 10, elev),
	}
}
