// Package chunker builds word-budgeted, sentence-safe text chunks for use
// as retrieval/prompt context.
package chunker

import (
	"errors"
	"strings"

	"github.com/natetalley/batchin/internal/textseg"
)

// ErrInvalidConfig is returned when the word budget is not positive.
var ErrInvalidConfig = errors.New("chunker: target words must be > 0")

// Slack factors above the word budget. Paragraph-only packing tolerates 20%
// overrun before flushing; the windowed safety valve fires at 30%. The two
// thresholds are distinct tuning knobs and must not be unified.
const (
	paragraphSlack = 1.2
	windowSlack    = 1.3
)

// Config controls chunking behavior.
type Config struct {
	TargetWords      int  // Word budget per chunk. Must be > 0.
	OverlapSentences int  // Sentences carried into the next chunk. Clamped to >= 0.
	ParagraphOnly    bool // Pack whole paragraphs instead of sliding over sentences.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TargetWords:      180,
		OverlapSentences: 1,
	}
}

// Chunk splits text into ordered chunks under the configured word budget.
// Empty or whitespace-only text yields no chunks and no error. Chunk text
// is a single-space re-join of retained sentences or paragraphs; original
// whitespace is not preserved.
func Chunk(text string, cfg Config) ([]string, error) {
	if cfg.TargetWords <= 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.OverlapSentences < 0 {
		cfg.OverlapSentences = 0
	}

	paras := textseg.SplitParagraphs(text)
	if len(paras) == 0 {
		return nil, nil
	}

	if cfg.ParagraphOnly {
		return chunkByParagraphs(paras, cfg.TargetWords), nil
	}
	return chunkWindowed(paras, cfg.TargetWords, cfg.OverlapSentences), nil
}

// chunkByParagraphs packs whole consecutive paragraphs into each chunk. A
// single paragraph larger than the budget is never split and may itself
// exceed it.
func chunkByParagraphs(paras []string, targetWords int) []string {
	var chunks []string
	var buf []string
	count := 0

	for _, p := range paras {
		w := textseg.CountWords(p)
		if count > 0 && float64(count+w) > float64(targetWords)*paragraphSlack {
			chunks = append(chunks, strings.Join(buf, " "))
			buf = []string{p}
			count = w
			continue
		}
		buf = append(buf, p)
		count += w
	}
	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, " "))
	}
	return chunks
}

// chunkWindowed slides a sentence window across paragraph boundaries,
// flushing at the budget and reseeding with the trailing overlap sentences.
func chunkWindowed(paras []string, targetWords, overlap int) []string {
	split := make([][]string, len(paras))
	for i, p := range paras {
		split[i] = textseg.SplitSentences(p)
	}
	return windowSentences(split, targetWords, overlap)
}

// windowSentences runs the sliding-window pass over already-split sentences,
// one inner slice per paragraph.
func windowSentences(paras [][]string, targetWords, overlap int) []string {
	var chunks []string
	var window []string
	windowWords := 0

	for _, sents := range paras {
		for _, s := range sents {
			w := textseg.CountWords(s)
			if len(window) > 0 && windowWords+w > targetWords {
				chunks = append(chunks, strings.Join(window, " "))
				if overlap > 0 {
					if overlap < len(window) {
						window = append([]string(nil), window[len(window)-overlap:]...)
					}
				} else {
					window = nil
				}
				windowWords = 0
				for _, kept := range window {
					windowWords += textseg.CountWords(kept)
				}
			}
			window = append(window, s)
			windowWords += w
		}
		// Safety valve against runs with no sentence boundaries.
		if float64(windowWords) > float64(targetWords)*windowSlack {
			chunks = append(chunks, strings.Join(window, " "))
			window = nil
			windowWords = 0
		}
	}
	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, " "))
	}
	return chunks
}
