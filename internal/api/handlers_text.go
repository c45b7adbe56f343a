package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/natetalley/batchin/internal/chunker"
	"github.com/natetalley/batchin/internal/decode"
	"github.com/natetalley/batchin/internal/records"
)

type chunkRequest struct {
	Text             string `json:"text"`
	TargetWords      int    `json:"target_words"`
	OverlapSentences *int   `json:"overlap_sentences"`
	ParagraphOnly    bool   `json:"paragraph_only"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := chunker.Config{
		TargetWords:      req.TargetWords,
		OverlapSentences: s.cfg.OverlapSentences,
		ParagraphOnly:    req.ParagraphOnly,
	}
	if cfg.TargetWords == 0 {
		cfg.TargetWords = s.cfg.TargetWords
	}
	if req.OverlapSentences != nil {
		cfg.OverlapSentences = *req.OverlapSentences
	}

	chunks, err := chunker.Chunk(req.Text, cfg)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if chunks == nil {
		chunks = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chunks": chunks,
		"count":  len(chunks),
	})
}

type recordsRequest struct {
	Text string `json:"text"`

	MinLineLen      *int `json:"min_line_len"`
	MinHeadingChars *int `json:"min_heading_chars"`
	MaxHeadingChars *int `json:"max_heading_chars"`
	MinSeparatorLen *int `json:"min_separator_len"`

	DetectAllCaps     *bool `json:"detect_all_caps"`
	DetectTitleCase   *bool `json:"detect_title_case"`
	DetectNumbered    *bool `json:"detect_numbered"`
	SplitOnSeparators *bool `json:"split_on_separators"`

	LineStart     int  `json:"line_start"`
	LineEnd       int  `json:"line_end"`
	SkipHeaderRow bool `json:"skip_header_row"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := records.DefaultOptions()
	opts.MinLineLen = s.cfg.MinLineLen
	opts.MinHeadingChars = s.cfg.MinHeadingChars
	opts.MaxHeadingChars = s.cfg.MaxHeadingChars
	opts.MinSeparatorLen = s.cfg.MinSeparatorLen

	setInt(&opts.MinLineLen, req.MinLineLen)
	setInt(&opts.MinHeadingChars, req.MinHeadingChars)
	setInt(&opts.MaxHeadingChars, req.MaxHeadingChars)
	setInt(&opts.MinSeparatorLen, req.MinSeparatorLen)
	setBool(&opts.DetectAllCaps, req.DetectAllCaps)
	setBool(&opts.DetectTitleCase, req.DetectTitleCase)
	setBool(&opts.DetectNumbered, req.DetectNumbered)
	setBool(&opts.SplitOnSeparators, req.SplitOnSeparators)

	if req.LineStart > 0 || req.LineEnd > 0 {
		opts.LineRange = &records.LineRange{Start: req.LineStart, End: req.LineEnd}
	}
	opts.SkipHeaderRow = req.SkipHeaderRow

	recs := records.Segment(req.Text, opts)
	if recs == nil {
		recs = []records.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": recs,
		"count":   len(recs),
	})
}

// handleDecode turns escape sequences in a plain-text body into their
// literal characters.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(decode.Escapes(string(body))))
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
