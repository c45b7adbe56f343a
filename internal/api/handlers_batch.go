package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/natetalley/batchin/internal/batch"
	"github.com/natetalley/batchin/internal/parser"
	"github.com/natetalley/batchin/internal/pipeline"
)

// handleBatchBuild accepts a document upload and queues an async build
// job. The "mode" form field selects docs_batch (default) or records.
func (s *Server) handleBatchBuild(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	mode := pipeline.ModeDocsBatch
	if r.FormValue("mode") == string(pipeline.ModeRecords) {
		mode = pipeline.ModeRecords
	}

	// Same bytes, same mode: point at the existing job instead of
	// building the dataset twice.
	hash := pipeline.ContentHashHex(data)
	if existing := s.orchestrator.FindJobByContent(hash, mode); existing != nil {
		snap := existing.Snapshot()
		s.log.Info("duplicate upload, skipping", "existing_job_id", snap.ID, "filename", filename)
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":   snap.ID,
			"mode":     snap.Mode,
			"status":   pipeline.StatusDupSkipped,
			"poll_url": fmt.Sprintf("/api/batch/%s/status", snap.ID),
		})
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:          pipeline.NewJobID(),
		Mode:        mode,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"mode":     job.Mode,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/batch/%s/status", job.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":   snap.ID,
		"mode":     snap.Mode,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// handleBatchResult streams a completed job's JSONL lines.
func (s *Server) handleBatchResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job not completed (status %s)", snap.Status), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	for _, line := range job.Result() {
		io.WriteString(w, line)
		io.WriteString(w, "\n")
	}
}

// handleBuildInference builds batch inference lines from an uploaded CSV,
// synchronously.
func (s *Server) handleBuildInference(w http.ResponseWriter, r *http.Request) {
	rows, headers, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}

	opts := batch.InferenceOptions{
		ContentColumn: r.FormValue("content_column"),
		IDColumn:      r.FormValue("id_column"),
		Prefix:        r.FormValue("prefix"),
		SystemPrompt:  r.FormValue("system_prompt"),
	}
	if maxTokens, err := strconv.Atoi(r.FormValue("max_tokens")); err == nil && maxTokens > 0 {
		temp, _ := strconv.ParseFloat(r.FormValue("temperature"), 64)
		opts.Params = &batch.Params{MaxTokens: maxTokens, Temperature: temp}
	}

	lines, err := batch.BuildInference(rows, headers, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeLines(w, lines)
}

// handleBuildFinetune builds finetune lines from an uploaded CSV. The
// "kind" form field selects chat, instruct or completions.
func (s *Server) handleBuildFinetune(w http.ResponseWriter, r *http.Request) {
	rows, headers, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}

	var (
		lines []string
		err   error
	)
	switch r.FormValue("kind") {
	case "chat":
		lines, err = batch.BuildFinetuneChat(rows, headers, batch.ChatOptions{
			UserColumn:      r.FormValue("user_column"),
			AssistantColumn: r.FormValue("assistant_column"),
			SystemPrompt:    r.FormValue("system_prompt"),
		})
	case "instruct":
		lines, err = batch.BuildFinetuneInstruct(rows, headers,
			r.FormValue("input_column"), r.FormValue("output_column"))
	case "completions":
		lines, err = batch.BuildFinetuneCompletions(rows, headers,
			r.FormValue("prompt_column"), r.FormValue("completion_column"))
	default:
		jsonError(w, "kind must be chat, instruct or completions", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeLines(w, lines)
}

// readCSVUpload parses the multipart "file" field as a headered CSV.
func (s *Server) readCSVUpload(w http.ResponseWriter, r *http.Request) ([]batch.Row, []string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	all, err := reader.ReadAll()
	if err != nil {
		jsonError(w, "parse csv: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	if len(all) < 2 {
		jsonError(w, "csv needs a header row and at least one data row", http.StatusBadRequest)
		return nil, nil, false
	}

	headers := all[0]
	return batch.ReadCSVRows(headers, all[1:]), headers, true
}

func writeLines(w http.ResponseWriter, lines []string) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	for _, line := range lines {
		io.WriteString(w, line)
		io.WriteString(w, "\n")
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
