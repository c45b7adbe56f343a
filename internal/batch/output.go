package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/natetalley/batchin/internal/flatten"
)

// contentPath addresses the assistant reply inside a batch output line.
const contentPath = "response.body.choices[0].message.content"

// txtSeparatorLength sizes the rule between plain-text entries.
const txtSeparatorLength = 50

// RowPair is one flattened batch result: the originating user message and
// the model's reply.
type RowPair struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// FlattenOutput pairs batch output lines with their inputs. The input is
// looked up by custom_id in the original request lines when provided, and
// falls back to the custom_id itself. Missing fields resolve to empty
// strings, never errors.
func FlattenOutput(outputs, originals []map[string]any) []RowPair {
	inputs := make(map[string]string, len(originals))
	for _, rec := range originals {
		cid := flatten.Extract(rec, "custom_id")
		if cid == "" {
			continue
		}
		if content := userContent(rec); content != "" {
			inputs[cid] = content
		}
	}

	pairs := make([]RowPair, 0, len(outputs))
	for _, rec := range outputs {
		cid := flatten.Extract(rec, "custom_id")
		input, ok := inputs[cid]
		if !ok {
			input = cid
		}
		pairs = append(pairs, RowPair{
			Input:  input,
			Output: flatten.Extract(rec, contentPath),
		})
	}
	return pairs
}

// userContent pulls the first user message out of a request line.
func userContent(rec map[string]any) string {
	body, _ := rec["body"].(map[string]any)
	msgs, _ := body["messages"].([]any)
	for _, m := range msgs {
		msg, ok := m.(map[string]any)
		if !ok {
			continue
		}
		if role, _ := msg["role"].(string); role != "user" {
			continue
		}
		content, _ := msg["content"].(string)
		return content
	}
	return ""
}

// WriteCSV renders pairs as a two-column CSV with an Input/Output header.
func WriteCSV(w io.Writer, pairs []RowPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Input", "Output"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range pairs {
		if err := cw.Write([]string{p.Input, p.Output}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTXT renders pairs as numbered plain-text entries separated by a
// rule line.
func WriteTXT(w io.Writer, pairs []RowPair) error {
	sep := strings.Repeat("=", txtSeparatorLength)
	for i, p := range pairs {
		_, err := fmt.Fprintf(w, "=== Entry %d ===\nInput:\n%s\n\nOutput:\n%s\n%s\n\n",
			i+1, p.Input, p.Output, sep)
		if err != nil {
			return fmt.Errorf("write txt entry: %w", err)
		}
	}
	return nil
}
