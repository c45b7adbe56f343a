package batch

import (
	"strings"
	"testing"
)

const sampleOutput = `{"custom_id":"request-1","response":{"body":{"choices":[{"message":{"content":"Go is a language."}}]}}}
{"custom_id":"request-2","response":{"body":{"choices":[{"message":{"content":"A goroutine is a lightweight thread."}}]}}}
{"custom_id":"request-3","response":{}}
`

const sampleOriginals = `{"custom_id":"request-1","body":{"messages":[{"role":"system","content":"sys"},{"role":"user","content":"What is Go?"}]}}
{"custom_id":"request-2","body":{"messages":[{"role":"user","content":"What is a goroutine?"}]}}
`

func TestFlattenOutput_PairsWithOriginals(t *testing.T) {
	outputs, err := ReadRecords(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}
	originals, err := ReadRecords(strings.NewReader(sampleOriginals))
	if err != nil {
		t.Fatalf("read originals: %v", err)
	}

	pairs := FlattenOutput(outputs, originals)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	want := []RowPair{
		{Input: "What is Go?", Output: "Go is a language."},
		{Input: "What is a goroutine?", Output: "A goroutine is a lightweight thread."},
		{Input: "request-3", Output: ""}, // no original, no reply
	}
	for i, w := range want {
		if pairs[i] != w {
			t.Errorf("pair %d: expected %+v, got %+v", i, w, pairs[i])
		}
	}
}

func TestFlattenOutput_NoOriginals(t *testing.T) {
	outputs, err := ReadRecords(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}
	pairs := FlattenOutput(outputs, nil)
	if pairs[0].Input != "request-1" {
		t.Errorf("expected custom_id fallback, got %q", pairs[0].Input)
	}
	if pairs[0].Output != "Go is a language." {
		t.Errorf("unexpected output %q", pairs[0].Output)
	}
}

func TestFlattenOutput_StringEncodedBody(t *testing.T) {
	// Some providers return response.body as a JSON-encoded string.
	raw := `{"custom_id":"request-1","response":{"body":"{\"choices\":[{\"message\":{\"content\":\"hello\"}}]}"}}`
	outputs, err := ReadRecords(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}
	pairs := FlattenOutput(outputs, nil)
	if pairs[0].Output != "hello" {
		t.Errorf("expected embedded content extracted, got %q", pairs[0].Output)
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	pairs := []RowPair{{Input: "a,b", Output: "line\ntwo"}}
	if err := WriteCSV(&sb, pairs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := sb.String()
	if !strings.HasPrefix(got, "Input,Output\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, `"a,b"`) {
		t.Errorf("comma field not quoted: %q", got)
	}
}

func TestWriteTXT(t *testing.T) {
	var sb strings.Builder
	pairs := []RowPair{
		{Input: "q1", Output: "a1"},
		{Input: "q2", Output: "a2"},
	}
	if err := WriteTXT(&sb, pairs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := sb.String()
	if !strings.Contains(got, "=== Entry 1 ===") || !strings.Contains(got, "=== Entry 2 ===") {
		t.Errorf("missing entry headers: %q", got)
	}
	if !strings.Contains(got, "Input:\nq1") || !strings.Contains(got, "Output:\na2") {
		t.Errorf("missing entry content: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("=", 50)) {
		t.Errorf("missing separator rule: %q", got)
	}
}
