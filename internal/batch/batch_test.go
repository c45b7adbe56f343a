package batch

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		t.Fatalf("line is not valid JSON: %v\n%s", err, line)
	}
	return obj
}

func TestBuildInference_Basic(t *testing.T) {
	headers := []string{"question"}
	rows := []Row{
		{"question": "What is Go?"},
		{"question": "What is a goroutine?"},
	}
	lines, err := BuildInference(rows, headers, InferenceOptions{
		ContentColumn: "question",
		SystemPrompt:  DefaultInferencePrompt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	obj := decodeLine(t, lines[0])
	if obj["custom_id"] != "request-1" {
		t.Errorf("expected custom_id request-1, got %v", obj["custom_id"])
	}
	body := obj["body"].(map[string]any)
	msgs := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(msgs))
	}
	sys := msgs[0].(map[string]any)
	if sys["role"] != "system" || sys["content"] != DefaultInferencePrompt {
		t.Errorf("unexpected system message: %v", sys)
	}
	user := msgs[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "What is Go?" {
		t.Errorf("unexpected user message: %v", user)
	}
	if _, present := body["max_tokens"]; present {
		t.Errorf("params should be omitted when not requested")
	}
}

func TestBuildInference_SkippedRowsKeepIndex(t *testing.T) {
	headers := []string{"q"}
	rows := []Row{
		{"q": "first"},
		{"q": "   "},
		{"q": "third"},
	}
	lines, err := BuildInference(rows, headers, InferenceOptions{ContentColumn: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := decodeLine(t, lines[1])["custom_id"]; got != "request-3" {
		t.Errorf("expected request-3 for the third row, got %v", got)
	}
}

func TestBuildInference_DuplicateIDsBumped(t *testing.T) {
	headers := []string{"q", "id"}
	rows := []Row{
		{"q": "a", "id": "doc"},
		{"q": "b", "id": "doc"},
		{"q": "c", "id": "doc"},
	}
	lines, err := BuildInference(rows, headers, InferenceOptions{
		ContentColumn: "q",
		IDColumn:      "id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"doc", "doc-2", "doc-3"}
	for i, w := range want {
		if got := decodeLine(t, lines[i])["custom_id"]; got != w {
			t.Errorf("line %d: expected custom_id %q, got %v", i, w, got)
		}
	}
}

func TestBuildInference_Params(t *testing.T) {
	headers := []string{"q"}
	rows := []Row{{"q": "hello"}}
	lines, err := BuildInference(rows, headers, InferenceOptions{
		ContentColumn: "q",
		Params:        &Params{MaxTokens: 512, Temperature: 0.7},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := decodeLine(t, lines[0])["body"].(map[string]any)
	if body["max_tokens"] != float64(512) {
		t.Errorf("expected max_tokens 512, got %v", body["max_tokens"])
	}
	if body["temperature"] != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", body["temperature"])
	}
}

func TestBuildInference_MissingColumn(t *testing.T) {
	if _, err := BuildInference([]Row{{"a": "x"}}, []string{"a"}, InferenceOptions{ContentColumn: "missing"}); err == nil {
		t.Fatal("expected error for missing content column")
	}
	if _, err := BuildInference(nil, nil, InferenceOptions{ContentColumn: "a"}); err == nil {
		t.Fatal("expected error for empty rows")
	}
}

func TestBuildDocPrompt(t *testing.T) {
	prompt := BuildDocPrompt("manual.pdf", 3, "Torque spec is 18 ft-lbs.")
	if !strings.Contains(prompt, "source: manual.pdf, chunk 3") {
		t.Errorf("prompt missing source attribution: %q", prompt)
	}
	if !strings.Contains(prompt, "Torque spec is 18 ft-lbs.") {
		t.Errorf("prompt missing chunk text: %q", prompt)
	}
	if !strings.HasPrefix(prompt, "Using only the context below") {
		t.Errorf("unexpected prompt preamble: %q", prompt)
	}
}

func TestDocRequest(t *testing.T) {
	req := DocRequest(7, "notes.txt", 0, "chunk text", DefaultDocsPrompt, nil)
	if req.CustomID != "request-7" {
		t.Errorf("expected request-7, got %q", req.CustomID)
	}
	if len(req.Body.Messages) != 2 || req.Body.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", req.Body.Messages)
	}
}

func TestBuildFinetuneChat(t *testing.T) {
	headers := []string{"user", "assistant"}
	rows := []Row{
		{"user": "hi", "assistant": "hello"},
		{"user": "orphan", "assistant": ""},
	}
	lines, err := BuildFinetuneChat(rows, headers, ChatOptions{
		UserColumn:      "user",
		AssistantColumn: "assistant",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected incomplete row skipped, got %d lines", len(lines))
	}
	msgs := decodeLine(t, lines[0])["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected user+assistant, got %d messages", len(msgs))
	}
	last := msgs[1].(map[string]any)
	if last["role"] != "assistant" || last["content"] != "hello" {
		t.Errorf("unexpected assistant message: %v", last)
	}
}

func TestBuildFinetuneInstruct(t *testing.T) {
	headers := []string{"in", "out"}
	rows := []Row{{"in": "translate", "out": "done"}}
	lines, err := BuildFinetuneInstruct(rows, headers, "in", "out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != `{"input":"translate","output":"done"}` {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestBuildFinetuneCompletions(t *testing.T) {
	headers := []string{"p", "c"}
	rows := []Row{{"p": "Once upon", "c": " a time"}}
	lines, err := BuildFinetuneCompletions(rows, headers, "p", "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != `{"prompt":"Once upon","completion":"a time"}` {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestReadRecords_SkipsMalformed(t *testing.T) {
	input := `{"custom_id":"request-1","n":12345678901234567890}

not json at all
{"custom_id":"request-2"}
`
	records, err := ReadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Number text survives decoding exactly.
	if n, ok := records[0]["n"].(json.Number); !ok || n.String() != "12345678901234567890" {
		t.Errorf("expected exact number text, got %v", records[0]["n"])
	}
}

func TestReadCSVRows(t *testing.T) {
	rows := ReadCSVRows([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	if rows[0]["a"] != "1" || rows[0]["b"] != "2" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	// Short rows leave trailing columns empty.
	if rows[1]["a"] != "3" || rows[1]["b"] != "" {
		t.Errorf("unexpected second row: %v", rows[1])
	}
}
