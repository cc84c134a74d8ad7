package domain

import (
	"fmt"
	"strings"
)

// InvalidPointError reports a survey point whose coordinates or elevation are
// missing, non-numeric, or out of range.
type InvalidPointError struct {
	Role   Role
	Field  string
	Reason string
}

func (e *InvalidPointError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "<unnamed>"
	}
	return fmt.Sprintf("invalid point %s: %s %s", role, e.Field, e.Reason)
}

// IncompleteStructureError reports a deck that does not carry exactly one point
// for each of the four corner roles.
type IncompleteStructureError struct {
	Structure  string
	Missing    []Role
	Duplicated []Role
}

func (e *IncompleteStructureError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+joinRoles(e.Missing))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "duplicated "+joinRoles(e.Duplicated))
	}
	name := e.Structure
	if name == "" {
		name = "deck"
	}
	return fmt.Sprintf("incomplete structure %s: %s", name, strings.Join(parts, "; "))
}

func joinRoles(roles []Role) string {
	s := make([]string, len(roles))
	for i, r := range roles {
		s[i] = string(r)
	}
	return strings.Join(s, ", ")
}

// WarningCode names an informational condition attached to a report.
type WarningCode string

// WarningMixedCoordinateApproximation signals that a distance was computed with the
// mixed-frame fallback instead of haversine or same-frame Euclidean geometry.
const WarningMixedCoordinateApproximation WarningCode = "MIXED_COORDINATE_APPROXIMATION"

// Warning is a non-fatal caveat surfaced to the user alongside the results.
type Warning struct {
	Code    WarningCode `json:"code"`
	Pair    string      `json:"pair,omitempty"`
	Message string      `json:"message"`
}
