package domain

import (
	"errors"
	"fmt"
)

// Axis selects which regulatory limit applies to an inclination.
type Axis string

const (
	AxisTransversal  Axis = "transversal"
	AxisLongitudinal Axis = "longitudinal"
)

// Tier is the severity of an inclination relative to its limit.
type Tier string

const (
	TierGood     Tier = "Good"
	TierModerate Tier = "Moderate"
	TierWarning  Tier = "Warning"
	TierCritical Tier = "Critical"
)

// Rank orders tiers by severity, Good being 0.
func (t Tier) Rank() int {
	switch t {
	case TierModerate:
		return 1
	case TierWarning:
		return 2
	case TierCritical:
		return 3
	default:
		return 0
	}
}

// Thresholds holds the inclination limits (percent) and the fractions of the
// limit at which the Warning and Moderate tiers start.
type Thresholds struct {
	Transversal      float64 `json:"transversal" mapstructure:"transversal"`
	Longitudinal     float64 `json:"longitudinal" mapstructure:"longitudinal"`
	WarningFraction  float64 `json:"warning_fraction" mapstructure:"warning_fraction"`
	ModerateFraction float64 `json:"moderate_fraction" mapstructure:"moderate_fraction"`
}

// DefaultThresholds returns the regulatory limits: 5% cross-slope, 2.5% grade,
// Warning above 80% of the limit and Moderate above 50%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Transversal:      5.0,
		Longitudinal:     2.5,
		WarningFraction:  0.8,
		ModerateFraction: 0.5,
	}
}

// Limit returns the limit for the axis.
func (t Thresholds) Limit(axis Axis) float64 {
	if axis == AxisTransversal {
		return t.Transversal
	}
	return t.Longitudinal
}

// Validate rejects limits that would make the tiers overlap or vanish.
func (t Thresholds) Validate() error {
	var errs []error
	if t.Transversal <= 0 {
		errs = append(errs, fmt.Errorf("transversal limit must be positive, got %g", t.Transversal))
	}
	if t.Longitudinal <= 0 {
		errs = append(errs, fmt.Errorf("longitudinal limit must be positive, got %g", t.Longitudinal))
	}
	if t.ModerateFraction <= 0 || t.ModerateFraction >= t.WarningFraction || t.WarningFraction >= 1 {
		errs = append(errs, fmt.Errorf("fractions must satisfy 0 < moderate (%g) < warning (%g) < 1",
			t.ModerateFraction, t.WarningFraction))
	}
	return errors.Join(errs...)
}

// ConformanceStatus is the classification of one inclination.
type ConformanceStatus struct {
	Tier              Tier    `json:"tier"`
	Axis              Axis    `json:"axis"`
	Percentage        float64 `json:"percentage"`
	Limit             float64 `json:"limit"`
	ThresholdFraction float64 `json:"threshold_fraction"`
	Description       string  `json:"description"`
}

// NonConforming reports whether the inclination exceeds its limit.
func (s ConformanceStatus) NonConforming() bool {
	return s.Tier == TierCritical
}

// Classify grades an inclination against the axis limit. Comparisons are strict,
// so a value exactly at a boundary stays in the lower tier.
func Classify(incl InclinationResult, axis Axis, th Thresholds) ConformanceStatus {
	limit := th.Limit(axis)
	warn := limit * th.WarningFraction
	moderate := limit * th.ModerateFraction

	s := ConformanceStatus{Axis: axis, Percentage: incl.Percentage, Limit: limit}
	switch pct := incl.Percentage; {
	case pct > limit:
		s.Tier = TierCritical
		s.ThresholdFraction = 1
		s.Description = fmt.Sprintf("above limit (>%.1f%%)", limit)
	case pct > warn:
		s.Tier = TierWarning
		s.ThresholdFraction = th.WarningFraction
		s.Description = fmt.Sprintf("near limit (%.1f-%.1f%%)", warn, limit)
	case pct > moderate:
		s.Tier = TierModerate
		s.ThresholdFraction = th.ModerateFraction
		s.Description = fmt.Sprintf("moderate (%.1f-%.1f%%)", moderate, warn)
	default:
		s.Tier = TierGood
		s.Description = fmt.Sprintf("within limit (<%.1f%%)", moderate)
	}
	return s
}
