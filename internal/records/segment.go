package records

import "strings"

// Record is a recovered title/content pair. At least one of the two fields
// is non-empty on every emitted record.
type Record struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Marker stored in the line buffer at paragraph boundaries. Body lines are
// trimmed and non-empty, so the empty string cannot collide.
const paragraphMarker = ""

// Segment drives the line classifier over text and emits title/content
// records. A separator flushes the pending record, a heading flushes and
// opens a new one, and end of input flushes whatever remains.
func Segment(text string, opts Options) []Record {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines = restrict(lines, opts)

	var recs []Record
	var buf []string
	title := ""

	flush := func() {
		if rec, ok := buildRecord(title, buf, opts); ok {
			recs = append(recs, rec)
		}
		title = ""
		buf = nil
	}

	for i, line := range lines {
		nextBlank := i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == ""
		switch Classify(line, nextBlank, opts) {
		case LineSeparator:
			flush()
		case LineHeading:
			flush()
			title = strings.TrimSpace(line)
		case LineBlank:
			if len(buf) > 0 && buf[len(buf)-1] != paragraphMarker {
				buf = append(buf, paragraphMarker)
			}
		case LineBody:
			buf = append(buf, strings.TrimSpace(line))
		case LineDropped:
			// Below the body length floor; skipped entirely.
		}
	}
	flush()
	return recs
}

// restrict applies the optional inclusive line range and header-row skip
// before classification begins.
func restrict(lines []string, opts Options) []string {
	if r := opts.LineRange; r != nil {
		start, end := r.Start, r.End
		if start < 1 {
			start = 1
		}
		if end < 1 || end > len(lines) {
			end = len(lines)
		}
		if start > len(lines) || start > end {
			return nil
		}
		lines = lines[start-1 : end]
	}
	if opts.SkipHeaderRow && len(lines) > 0 {
		lines = lines[1:]
	}
	return lines
}

// buildRecord assembles a record from the pending title and buffered lines.
// With no explicit title, a first line that reads as a heading (assuming a
// blank line follows it) is promoted out of the content.
func buildRecord(title string, buf []string, opts Options) (Record, bool) {
	if title == "" && len(buf) > 0 && buf[0] != paragraphMarker {
		if Classify(buf[0], true, opts) == LineHeading {
			title = buf[0]
			buf = buf[1:]
		}
	}
	content := joinParagraphs(buf)
	if title == "" && content == "" {
		return Record{}, false
	}
	return Record{Title: title, Content: content}, true
}

// joinParagraphs re-joins buffered lines, collapsing runs of paragraph
// markers into a single paragraph break.
func joinParagraphs(buf []string) string {
	var sb strings.Builder
	started := false
	pendingBreak := false
	for _, l := range buf {
		if l == paragraphMarker {
			pendingBreak = true
			continue
		}
		if started {
			if pendingBreak {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		}
		sb.WriteString(l)
		started = true
		pendingBreak = false
	}
	return strings.TrimSpace(sb.String())
}
