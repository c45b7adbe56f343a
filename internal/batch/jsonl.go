package batch

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// ReadRecords reads a JSONL stream into generic records. Blank and
// malformed lines are skipped rather than failing the whole file, and
// numbers keep their exact text via json.Number.
func ReadRecords(r io.Reader) ([]map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []map[string]any
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadCSVRows is a convenience wrapper pairing headers with row maps the
// builders consume.
func ReadCSVRows(headers []string, rawRows [][]string) []Row {
	rows := make([]Row, 0, len(rawRows))
	for _, raw := range rawRows {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
