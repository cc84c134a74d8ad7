package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/deck-conformance/internal/domain"
)

// Request decoding failures.
var (
	ErrMalformed      = errors.New("malformed survey request")
	ErrStructureCount = errors.New("survey request must carry one or two structures")
)

// SurveyRequest is the JSON message asking for one conformance analysis.
//
//	{"id": "...", "structures": [{"name": "span 1", "points": {"LD INICIO PONTE": {...}}}]}
type SurveyRequest struct {
	ID         string           `json:"id"`
	Structures []StructureInput `json:"structures"`
}

// StructureInput is one deck: field labels mapped to raw survey records.
type StructureInput struct {
	Name   string                     `json:"name"`
	Points map[string]domain.RawPoint `json:"points"`
}

// ParseSurveyRequest decodes and shape-checks a survey request message.
func ParseSurveyRequest(data []byte) (SurveyRequest, error) {
	var req SurveyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return SurveyRequest{}, fmt.Errorf("parse survey request: %w: %w", ErrMalformed, err)
	}
	if n := len(req.Structures); n < 1 || n > 2 {
		return SurveyRequest{}, fmt.Errorf("parse survey request: %w, got %d", ErrStructureCount, n)
	}
	return req, nil
}

// BuildDecks resolves labels, normalizes points and assembles the decks of a
// request. The second deck is nil for single-span requests.
func BuildDecks(req SurveyRequest) (domain.DeckQuadrilateral, *domain.DeckQuadrilateral, error) {
	if n := len(req.Structures); n < 1 || n > 2 {
		return domain.DeckQuadrilateral{}, nil, fmt.Errorf("build decks: %w, got %d", ErrStructureCount, n)
	}

	decks := make([]domain.DeckQuadrilateral, 0, len(req.Structures))
	for i, s := range req.Structures {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("deck %d", i+1)
		}
		deck, err := buildDeck(name, s.Points)
		if err != nil {
			return domain.DeckQuadrilateral{}, nil, fmt.Errorf("build decks: %w", err)
		}
		decks = append(decks, deck)
	}

	if len(decks) == 1 {
		return decks[0], nil, nil
	}
	return decks[0], &decks[1], nil
}

func buildDeck(name string, points map[string]domain.RawPoint) (domain.DeckQuadrilateral, error) {
	// Sorted so duplicate reporting does not depend on map order.
	labels := make([]string, 0, len(points))
	for label := range points {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	survey := make([]domain.SurveyPoint, 0, len(labels))
	for _, label := range labels {
		raw := points[label]
		role, ok := ResolveRole(label)
		if !ok && raw.Role != "" {
			role, ok = ResolveRole(raw.Role)
		}
		if !ok {
			continue
		}
		raw.Role = string(role)
		if raw.Label == "" {
			raw.Label = strings.TrimSpace(label)
		}

		p, err := domain.Normalize(raw)
		if err != nil {
			return domain.DeckQuadrilateral{}, fmt.Errorf("%s: %w", name, err)
		}
		survey = append(survey, p)
	}

	return domain.NewDeckFromPoints(name, survey...)
}
