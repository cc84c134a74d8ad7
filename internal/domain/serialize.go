package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SerializeReport converts a report into an OutputEvent keyed by report ID.
// The conformant and generated_at headers let consumers filter without decoding.
func SerializeReport(report ConformanceReport) (OutputEvent, error) {
	value, err := json.Marshal(report)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize report: %w", err)
	}

	headers := map[string]string{
		"conformant":       strconv.FormatBool(report.IsConformant),
		"non_conformities": strconv.Itoa(report.TotalNonConformities),
		"generated_at":     report.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if report.RequestID != "" {
		headers["request_id"] = report.RequestID
	}

	return OutputEvent{
		Key:     []byte(report.ID),
		Value:   value,
		Headers: headers,
	}, nil
}
