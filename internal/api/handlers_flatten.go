package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/natetalley/batchin/internal/batch"
	"github.com/natetalley/batchin/internal/flatten"
)

// handleFlattenPaths discovers addressable field paths in a JSONL body.
// The walk is bounded by the max_depth and max_array_items query params.
func (s *Server) handleFlattenPaths(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.readJSONL(w, r)
	if !ok {
		return
	}

	paths := flatten.Discover(recs, flatten.Options{
		MaxDepth:      queryInt(r, "max_depth"),
		MaxArrayItems: queryInt(r, "max_array_items"),
	})
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"paths": out,
		"count": len(out),
	})
}

// handleFlatten extracts the selected paths (comma-separated "paths" query
// param) from every record of a JSONL body. Missing fields come back as
// empty strings.
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	selected := splitPaths(r.URL.Query().Get("paths"))
	if len(selected) == 0 {
		jsonError(w, "paths query parameter is required", http.StatusBadRequest)
		return
	}
	parsed := make([]flatten.Path, len(selected))
	for i, raw := range selected {
		p, err := flatten.ParsePath(raw)
		if err != nil {
			jsonError(w, "invalid path: "+err.Error(), http.StatusBadRequest)
			return
		}
		parsed[i] = p
	}

	recs, ok := s.readJSONL(w, r)
	if !ok {
		return
	}

	rows := make([]map[string]string, 0, len(recs))
	for _, rec := range recs {
		row := make(map[string]string, len(parsed))
		for i, p := range parsed {
			row[selected[i]] = flatten.ExtractPath(rec, p)
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  rows,
		"count": len(rows),
	})
}

// handleFlattenOutput pairs batch output lines with their original
// requests. The body is multipart: an "output" JSONL file, an optional
// "original" JSONL file, and a "format" field (json, csv or txt).
func (s *Server) handleFlattenOutput(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*2)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	outFile, _, err := r.FormFile("output")
	if err != nil {
		jsonError(w, "output file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer outFile.Close()
	outputs, err := batch.ReadRecords(outFile)
	if err != nil {
		jsonError(w, "read output: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(outputs) == 0 {
		jsonError(w, "no valid results in batch output", http.StatusBadRequest)
		return
	}

	var originals []map[string]any
	if origFile, _, err := r.FormFile("original"); err == nil {
		originals, err = batch.ReadRecords(origFile)
		origFile.Close()
		if err != nil {
			jsonError(w, "read original: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	pairs := batch.FlattenOutput(outputs, originals)

	switch r.FormValue("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := batch.WriteCSV(w, pairs); err != nil {
			s.log.Error("write csv", "error", err)
		}
	case "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := batch.WriteTXT(w, pairs); err != nil {
			s.log.Error("write txt", "error", err)
		}
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"pairs": pairs,
			"count": len(pairs),
		})
	}
}

// readJSONL parses the request body as JSONL records.
func (s *Server) readJSONL(w http.ResponseWriter, r *http.Request) ([]map[string]any, bool) {
	recs, err := batch.ReadRecords(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "read jsonl: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if len(recs) == 0 {
		jsonError(w, "no valid jsonl records in body", http.StatusBadRequest)
		return nil, false
	}
	return recs, true
}

func queryInt(r *http.Request, key string) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func splitPaths(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
