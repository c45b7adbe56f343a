// Package batch builds JSONL dataset lines: batch inference requests from
// CSV rows or document chunks, finetune examples in the chat, instruct and
// completions shapes, and the reverse direction — pairing batch output
// lines back up with their inputs.
package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultPrefix seeds generated custom IDs.
const DefaultPrefix = "request-"

// Default system prompts per build mode.
const (
	DefaultInferencePrompt   = "You are a helpful assistant."
	DefaultChatPrompt        = "You are a careful, concise assistant. Answer directly. Cite steps briefly when useful."
	DefaultInstructPrompt    = "Follow the instruction given as 'input' and produce the best 'output'. Be clear and correct."
	DefaultCompletionsPrompt = "Continue the prompt in a helpful, unambiguous way."
	DefaultDocsPrompt        = "You are a helpful assistant. Use only the provided context to answer. " +
		"If the answer isn't in the context, say you don't know."
)

// Row is one CSV data row keyed by header.
type Row map[string]string

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are optional sampling parameters carried on a request body.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Body is the request payload of one batch inference line.
type Body struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Request is one batch inference JSONL line.
type Request struct {
	CustomID string `json:"custom_id"`
	Body     Body   `json:"body"`
}

// InferenceOptions configure BuildInference.
type InferenceOptions struct {
	ContentColumn string  // Required: column holding the user message.
	IDColumn      string  // Optional: column holding custom IDs.
	Prefix        string  // Fallback ID prefix. Defaults to DefaultPrefix.
	SystemPrompt  string  // Optional system message.
	Params        *Params // Optional sampling parameters.
}

// BuildInference converts CSV rows into batch inference lines. Rows with
// empty content are skipped but still consume their index, so generated
// IDs stay stable when rows are filtered. Duplicate custom IDs are bumped
// with a -2, -3… suffix in encounter order.
func BuildInference(rows []Row, headers []string, opts InferenceOptions) ([]string, error) {
	if len(rows) == 0 || len(headers) == 0 {
		return nil, fmt.Errorf("no rows loaded")
	}
	if !hasHeader(headers, opts.ContentColumn) {
		return nil, fmt.Errorf("content column not found: %s", opts.ContentColumn)
	}
	useIDCol := opts.IDColumn != "" && hasHeader(headers, opts.IDColumn)
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	seen := make(map[string]bool)
	var lines []string
	for idx, row := range rows {
		content := strings.TrimSpace(row[opts.ContentColumn])
		if content == "" {
			continue
		}

		msgs := promptMessages(opts.SystemPrompt, content)

		cid := ""
		if useIDCol {
			cid = strings.TrimSpace(row[opts.IDColumn])
		}
		if cid == "" {
			cid = fmt.Sprintf("%s%d", prefix, idx+1)
		}
		base, bump := cid, 1
		for seen[cid] {
			bump++
			cid = fmt.Sprintf("%s-%d", base, bump)
		}
		seen[cid] = true

		line, err := EncodeLine(Request{CustomID: cid, Body: newBody(msgs, opts.Params)})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// BuildDocPrompt renders the user message for one document chunk.
func BuildDocPrompt(source string, index int, chunk string) string {
	return "Using only the context below, provide a concise answer to this request: " +
		"'Summarize key facts and terms clearly'. If information is missing, say you don't know.\n\n" +
		fmt.Sprintf("Context (source: %s, chunk %d):\n%s", source, index, chunk)
}

// DocRequest assembles one batch inference line for a document chunk. seq
// numbers the request across the whole build; index is the chunk's
// position within its source document.
func DocRequest(seq int, source string, index int, chunk, systemPrompt string, params *Params) Request {
	msgs := promptMessages(systemPrompt, BuildDocPrompt(source, index, chunk))
	return Request{
		CustomID: fmt.Sprintf("%s%d", DefaultPrefix, seq),
		Body:     newBody(msgs, params),
	}
}

// EncodeLine marshals one JSONL line without a trailing newline.
func EncodeLine(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode jsonl line: %w", err)
	}
	return string(b), nil
}

func newBody(msgs []Message, params *Params) Body {
	body := Body{Messages: msgs}
	if params != nil {
		body.MaxTokens = params.MaxTokens
		t := params.Temperature
		body.Temperature = &t
	}
	return body
}

func promptMessages(systemPrompt, userContent string) []Message {
	var msgs []Message
	if systemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: systemPrompt})
	}
	return append(msgs, Message{Role: "user", Content: userContent})
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
