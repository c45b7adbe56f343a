package chunker

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/natetalley/batchin/internal/textseg"
)

func TestChunk_InvalidTargetWords(t *testing.T) {
	if _, err := Chunk("some text", Config{TargetWords: 0}); err != ErrInvalidConfig {
		t.Errorf("expected ErrInvalidConfig for zero budget, got %v", err)
	}
	if _, err := Chunk("some text", Config{TargetWords: -5}); err != ErrInvalidConfig {
		t.Errorf("expected ErrInvalidConfig for negative budget, got %v", err)
	}
}

func TestChunk_NegativeOverlapClamped(t *testing.T) {
	chunks, err := Chunk("A short sentence that stands alone here.", Config{TargetWords: 50, OverlapSentences: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		chunks, err := Chunk(input, Config{TargetWords: 100})
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected no chunks for %q, got %d", input, len(chunks))
		}
	}
}

func TestChunk_SlidingWindowWithOverlap(t *testing.T) {
	// Five two-word sentences, budget 6, overlap 1: the window flushes after
	// three sentences and reseeds with the last one.
	paras := [][]string{{
		"Sentence one.",
		"Sentence two.",
		"Sentence three.",
		"Sentence four.",
		"Sentence five.",
	}}
	got := windowSentences(paras, 6, 1)
	want := []string{
		"Sentence one. Sentence two. Sentence three.",
		"Sentence three. Sentence four. Sentence five.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestChunk_SlidingWindowNoOverlap(t *testing.T) {
	paras := [][]string{{
		"Sentence one.",
		"Sentence two.",
		"Sentence three.",
		"Sentence four.",
	}}
	got := windowSentences(paras, 6, 0)
	want := []string{
		"Sentence one. Sentence two. Sentence three.",
		"Sentence four.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestChunk_OverlapReconstructible(t *testing.T) {
	var sents []string
	for i := 0; i < 30; i++ {
		sents = append(sents, fmt.Sprintf("Sentence number %d words pad pad.", i))
	}
	const overlap = 2
	chunks := windowSentences([][]string{sents}, 20, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// Each chunk after the first must begin with the tail sentences of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		tail := lastSentences(chunks[i-1], overlap)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with previous tail %q: %q", i, tail, chunks[i])
		}
	}
}

// lastSentences re-splits a space-joined chunk of "… pad." sentences and
// returns the final n rejoined.
func lastSentences(chunk string, n int) string {
	parts := strings.SplitAfter(chunk, "pad.")
	var sents []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sents = append(sents, p)
		}
	}
	if len(sents) <= n {
		return strings.Join(sents, " ")
	}
	return strings.Join(sents[len(sents)-n:], " ")
}

func TestChunk_WindowedBudgetInvariant(t *testing.T) {
	// Every emitted chunk stays within target*1.3 words unless it is a
	// single oversized sentence.
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog near the river bank today. ")
	}
	const target = 30
	chunks, err := Chunk(sb.String(), Config{TargetWords: target, OverlapSentences: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		w := textseg.CountWords(c)
		if float64(w) > float64(target)*1.3 && len(textseg.SplitSentences(c)) > 1 {
			t.Errorf("chunk %d has %d words, above the %.0f ceiling", i, w, float64(target)*1.3)
		}
	}
}

func TestChunk_SafetyValveFlushesUnbrokenRun(t *testing.T) {
	// One giant "sentence" with no boundaries: the per-paragraph valve must
	// flush it instead of letting the window grow across paragraphs.
	run := strings.Repeat("word ", 100)
	text := strings.TrimSpace(run) + "\n\n" + "A trailing paragraph follows the giant run here."
	chunks, err := Chunk(text, Config{TargetWords: 20, OverlapSentences: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected the valve to split the run from the trailer, got %d chunks", len(chunks))
	}
	if strings.Contains(chunks[len(chunks)-1], "word word") {
		t.Errorf("trailing paragraph chunk still contains the giant run: %q", chunks[len(chunks)-1])
	}
}

func TestChunk_ParagraphOnlyNeverSplitsParagraphs(t *testing.T) {
	paras := []string{
		"First paragraph with exactly eight words in it.",
		"Second paragraph also carries exactly eight words total.",
		"Third paragraph brings along another eight word load.",
	}
	text := strings.Join(paras, "\n\n")
	chunks, err := Chunk(text, Config{TargetWords: 10, ParagraphOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Budget 10, slack 12: each 8-word paragraph gets its own chunk.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, want := range paras {
		if chunks[i] != want {
			t.Errorf("chunk %d: expected whole paragraph %q, got %q", i, want, chunks[i])
		}
	}
}

func TestChunk_ParagraphOnlyPacksWithinSlack(t *testing.T) {
	text := "Four words right here.\n\nAnother four word piece.\n\nYet four more words."
	chunks, err := Chunk(text, Config{TargetWords: 10, ParagraphOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4+4=8 fits, 8+4=12 still within 10*1.2, so all three pack together.
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(chunks), chunks)
	}
	want := "Four words right here. Another four word piece. Yet four more words."
	if chunks[0] != want {
		t.Errorf("expected %q, got %q", want, chunks[0])
	}
}

func TestChunk_ParagraphOnlyOversizedParagraphKept(t *testing.T) {
	big := strings.TrimSpace(strings.Repeat("word ", 50))
	text := "Small opener paragraph sits first here.\n\n" + big
	chunks, err := Chunk(text, Config{TargetWords: 10, ParagraphOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1] != big {
		t.Errorf("oversized paragraph was altered: %q", chunks[1])
	}
}
