package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a numeric survey field. It decodes from a JSON number or from a
// string holding one, since spreadsheet exports often quote coordinates. Text
// that is not a number is kept instead of failing the whole document, so that
// Normalize can report the offending point and field.
type Number struct {
	Value float64
	// Invalid holds the original text when it could not be parsed.
	Invalid string
}

// NumberOf wraps v as a present, valid Number.
func NumberOf(v float64) *Number {
	return &Number{Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.parse(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		n.Value, n.Invalid = 0, string(data)
		return nil //nolint:nilerr // reported by Normalize
	}
	n.Value, n.Invalid = f, ""
	return nil
}

func (n *Number) parse(s string) {
	text := strings.TrimSpace(s)
	// Decimal comma, as in "812,5".
	if strings.Count(text, ",") == 1 && !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || text == "" {
		n.Value, n.Invalid = 0, s
		if n.Invalid == "" {
			n.Invalid = `""`
		}
		return
	}
	n.Value, n.Invalid = f, ""
}

// MarshalJSON implements json.Marshaler. Invalid text round-trips as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.Invalid != "" {
		return json.Marshal(n.Invalid)
	}
	return json.Marshal(n.Value)
}

// valid reports whether the field holds a finite number.
func (n *Number) valid() bool {
	return n.Invalid == "" && isFinite(n.Value)
}
