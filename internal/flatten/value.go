// Package flatten discovers addressable field paths inside nested JSON
// records and extracts display values for them, transparently un-nesting
// JSON-encoded string fields. All lookup failures are soft: they resolve
// to empty values instead of errors so heterogeneous batches never abort.
package flatten

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the logical type of a decoded JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// KindOf classifies a value as produced by encoding/json (with or without
// Decoder.UseNumber).
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, int, int64:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindString
	}
}

// Format renders a resolved value for display: null becomes the empty
// string, scalars their natural string form, and collections their compact
// JSON serialization.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// decodeJSON parses a JSON document preserving number text via json.Number.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// looksLikeJSON reports whether a string leaf plausibly embeds a JSON
// object or array.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")
}
