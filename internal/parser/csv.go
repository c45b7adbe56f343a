package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. Each data row becomes one "header: value"
// line; rows are grouped into paragraphs so the chunker has natural
// boundaries to pack against.
type CSVParser struct{}

// rowsPerParagraph keeps row groups small enough to fit a single chunk.
const rowsPerParagraph = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var paragraphs []string
	for i := 0; i < len(dataRows); i += rowsPerParagraph {
		end := i + rowsPerParagraph
		if end > len(dataRows) {
			end = len(dataRows)
		}

		var text strings.Builder
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		paragraphs = append(paragraphs, text.String())
	}

	return joinParagraphs(paragraphs), nil
}
