// Package textseg splits raw text into paragraphs and sentences.
// It is the shared base layer under the chunker and the record segmenter.
package textseg

import (
	"regexp"
	"strings"
	"unicode"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Fragments shorter than this many words are merged into the preceding
// sentence to suppress false splits on abbreviations and initials.
const minSentenceWords = 4

// SplitParagraphs normalizes CRLF to LF and splits text on runs of two or
// more newlines. Pieces are trimmed; empty pieces are dropped.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, block := range paragraphBreak.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}

// SplitSentences splits a paragraph at sentence-ending punctuation followed
// by whitespace and an uppercase letter, digit, or opening quote/paren.
// Short trailing fragments are merged backward rather than emitted alone.
func SplitSentences(paragraph string) []string {
	trimmed := strings.TrimSpace(paragraph)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	var parts []string
	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j > i+1 && j < len(runes) && startsSentence(runes[j]) {
				parts = append(parts, string(runes[start:i+1]))
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}

	var merged []string
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(merged) > 0 && CountWords(s) < minSentenceWords {
			merged[len(merged)-1] += " " + s
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// CountWords counts whitespace-delimited words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\'' || r == '('
}
