package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/couchcryptid/deck-conformance/internal/domain"
	"github.com/couchcryptid/deck-conformance/internal/ingest"
)

// maxRequestBytes caps a survey request body. Two structures with auxiliary
// points fit comfortably.
const maxRequestBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
		return
	}

	report, err := s.builder.Build(r.Context(), body)
	if err != nil {
		status, msg := statusFor(err)
		s.respondError(w, status, msg, err)
		return
	}

	s.metrics.AnalyzeRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	writeJSON(w, http.StatusOK, report)
}

// statusFor maps analysis errors to HTTP status codes: undecodable input is a
// bad request, decodable input that cannot form a deck is unprocessable.
func statusFor(err error) (int, string) {
	var ipe *domain.InvalidPointError
	var ise *domain.IncompleteStructureError
	switch {
	case errors.Is(err, ingest.ErrMalformed):
		return http.StatusBadRequest, "malformed survey request"
	case errors.Is(err, ingest.ErrStructureCount):
		return http.StatusUnprocessableEntity, "expected one or two structures"
	case errors.As(err, &ipe):
		return http.StatusUnprocessableEntity, "invalid survey point"
	case errors.As(err, &ise):
		return http.StatusUnprocessableEntity, "incomplete structure"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string, err error) {
	s.metrics.AnalyzeRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	if status >= http.StatusInternalServerError {
		s.logger.Error("analyze request failed", "error", err)
	} else {
		s.logger.Debug("analyze request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
