// Package records recovers titled records from unstructured plain text
// using heading and separator heuristics over a line stream.
package records

import (
	"regexp"
	"strings"
	"unicode"
)

// LineKind tags a classified input line.
type LineKind int

const (
	LineBody LineKind = iota
	LineBlank
	LineSeparator
	LineHeading
	LineDropped
)

// LineRange restricts segmentation to an inclusive 1-based line span.
type LineRange struct {
	Start int
	End   int
}

// Options are the tunable thresholds for classification and segmentation.
type Options struct {
	MinLineLen        int
	MinHeadingChars   int
	MaxHeadingChars   int
	DetectAllCaps     bool
	DetectTitleCase   bool
	DetectNumbered    bool
	SplitOnSeparators bool
	MinSeparatorLen   int

	LineRange     *LineRange
	SkipHeaderRow bool
}

// DefaultOptions returns sensible defaults. The heading ceiling sits below
// typical sentence length so the blank-line fallback does not swallow
// ordinary prose.
func DefaultOptions() Options {
	return Options{
		MinLineLen:        10,
		MinHeadingChars:   3,
		MaxHeadingChars:   40,
		DetectAllCaps:     true,
		DetectTitleCase:   true,
		DetectNumbered:    true,
		SplitOnSeparators: true,
		MinSeparatorLen:   4,
	}
}

const separatorChars = "=*-_~#"

// Fraction of words that must be capitalized for the title-case heuristic.
const titleCaseRatio = 0.6

var (
	separatorRun    = regexp.MustCompile(`^[=*_~#-]{3,}$`)
	numberedHeading = regexp.MustCompile(`^(?:[0-9]{1,4}|[IVXLCDM]+)[.)]\s+\S`)
)

// Classify tags a single line. nextBlank reports whether the immediately
// following line is blank (false at end of input).
func Classify(line string, nextBlank bool, opts Options) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineBlank
	}
	if opts.SplitOnSeparators && isSeparator(trimmed, opts.MinSeparatorLen) {
		return LineSeparator
	}
	if isHeading(trimmed, nextBlank, opts) {
		return LineHeading
	}
	if len([]rune(trimmed)) < opts.MinLineLen {
		return LineDropped
	}
	return LineBody
}

func isSeparator(trimmed string, minLen int) bool {
	runes := []rune(trimmed)
	if len(runes) >= minLen && strings.ContainsRune(separatorChars, runes[0]) {
		uniform := true
		for _, r := range runes[1:] {
			if r != runes[0] {
				uniform = false
				break
			}
		}
		if uniform {
			return true
		}
	}
	return separatorRun.MatchString(trimmed)
}

func isHeading(trimmed string, nextBlank bool, opts Options) bool {
	n := len([]rune(trimmed))
	if n < opts.MinHeadingChars || n > opts.MaxHeadingChars {
		return false
	}
	if opts.DetectNumbered && numberedHeading.MatchString(trimmed) {
		return true
	}
	if opts.DetectAllCaps && isAllCaps(trimmed) {
		return true
	}
	if opts.DetectTitleCase && mostWordsCapitalized(trimmed) {
		return true
	}
	// Fallback: a short line right before a blank reads as a heading.
	return nextBlank
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func mostWordsCapitalized(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	capped := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			capped++
		}
	}
	return float64(capped)/float64(len(words)) >= titleCaseRatio
}
