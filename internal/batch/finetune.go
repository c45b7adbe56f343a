package batch

import (
	"fmt"
	"strings"
)

// ChatOptions configure BuildFinetuneChat.
type ChatOptions struct {
	UserColumn      string
	AssistantColumn string
	SystemPrompt    string
}

// BuildFinetuneChat converts CSV rows into chat finetune lines
// ({"messages":[system?,user,assistant]}). Rows missing either side are
// skipped.
func BuildFinetuneChat(rows []Row, headers []string, opts ChatOptions) ([]string, error) {
	if len(rows) == 0 || len(headers) == 0 {
		return nil, fmt.Errorf("no rows loaded")
	}
	if !hasHeader(headers, opts.UserColumn) || !hasHeader(headers, opts.AssistantColumn) {
		return nil, fmt.Errorf("specify valid user and assistant columns")
	}

	var lines []string
	for _, row := range rows {
		u := strings.TrimSpace(row[opts.UserColumn])
		a := strings.TrimSpace(row[opts.AssistantColumn])
		if u == "" || a == "" {
			continue
		}
		msgs := promptMessages(opts.SystemPrompt, u)
		msgs = append(msgs, Message{Role: "assistant", Content: a})
		line, err := EncodeLine(map[string][]Message{"messages": msgs})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// InstructExample is one instruct finetune line.
type InstructExample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// BuildFinetuneInstruct converts CSV rows into {"input","output"} lines.
func BuildFinetuneInstruct(rows []Row, headers []string, inputCol, outputCol string) ([]string, error) {
	if len(rows) == 0 || len(headers) == 0 {
		return nil, fmt.Errorf("no rows loaded")
	}
	if !hasHeader(headers, inputCol) || !hasHeader(headers, outputCol) {
		return nil, fmt.Errorf("specify valid input and output columns")
	}

	var lines []string
	for _, row := range rows {
		in := strings.TrimSpace(row[inputCol])
		out := strings.TrimSpace(row[outputCol])
		if in == "" || out == "" {
			continue
		}
		line, err := EncodeLine(InstructExample{Input: in, Output: out})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CompletionExample is one completions finetune line.
type CompletionExample struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// BuildFinetuneCompletions converts CSV rows into {"prompt","completion"}
// lines.
func BuildFinetuneCompletions(rows []Row, headers []string, promptCol, completionCol string) ([]string, error) {
	if len(rows) == 0 || len(headers) == 0 {
		return nil, fmt.Errorf("no rows loaded")
	}
	if !hasHeader(headers, promptCol) || !hasHeader(headers, completionCol) {
		return nil, fmt.Errorf("specify valid prompt and completion columns")
	}

	var lines []string
	for _, row := range rows {
		p := strings.TrimSpace(row[promptCol])
		c := strings.TrimSpace(row[completionCol])
		if p == "" || c == "" {
			continue
		}
		line, err := EncodeLine(CompletionExample{Prompt: p, Completion: c})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
