package flatten

// Extract resolves a textual path against a record and returns a display
// string. It never fails: absence, type mismatch, an out-of-range index, a
// malformed path, or a JSON parse failure mid-walk all yield "".
func Extract(record map[string]any, path string) string {
	p, err := ParsePath(path)
	if err != nil {
		return ""
	}
	return ExtractPath(record, p)
}

// ExtractPath is Extract over an already-parsed path.
func ExtractPath(record map[string]any, p Path) string {
	var cur any = record
	for _, seg := range p {
		// A string with segments left to apply may be JSON-encoded; re-parse
		// before descending, and give up softly when it is plain text.
		if s, ok := cur.(string); ok {
			parsed, err := decodeJSON(s)
			if err != nil {
				return ""
			}
			cur = parsed
		}

		if seg.IsIndex {
			arr, ok := cur.([]any)
			if !ok || seg.Index >= len(arr) {
				return ""
			}
			cur = arr[seg.Index]
			continue
		}

		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = obj[seg.Key]
		if !ok {
			return ""
		}
	}
	return Format(cur)
}
