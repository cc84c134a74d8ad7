package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/couchcryptid/deck-conformance/internal/domain"
)

// foldLabel strips diacritics and upper-cases a field label, e.g. "le_início" -> "LE_INICIO".
func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// ResolveRole maps a field label to a deck corner role. Labels are matched by
// token after accent folding, so "LD_INICIO_OAE", "LD INICIO PONTE",
// "ld final de ponte" and "LE_INÍCIO" all resolve. A label naming both sides,
// both ends or neither is not a corner.
func ResolveRole(label string) (domain.Role, bool) {
	tokens := strings.FieldsFunc(foldLabel(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var side, end string
	for _, tok := range tokens {
		switch tok {
		case "LD", "DIREITO", "DIREITA":
			if side != "" && side != "LD" {
				return "", false
			}
			side = "LD"
		case "LE", "ESQUERDO", "ESQUERDA":
			if side != "" && side != "LE" {
				return "", false
			}
			side = "LE"
		case "INICIO", "INICIAL":
			if end != "" && end != "INICIO" {
				return "", false
			}
			end = "INICIO"
		case "FINAL", "FIM":
			if end != "" && end != "FINAL" {
				return "", false
			}
			end = "FINAL"
		}
	}
	if side == "" || end == "" {
		return "", false
	}
	return domain.Role(side + "_" + end), true
}
