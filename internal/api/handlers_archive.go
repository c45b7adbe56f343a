package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/natetalley/batchin/internal/archive"
)

type archiveDownloadRequest struct {
	ItemID  string `json:"item_id"`
	Dir     string `json:"dir"`
	Format  string `json:"format"`
	DelayMs int    `json:"delay_ms"`
}

// handleArchiveDownload fetches an archive.org item's text/PDF files into
// a server-local directory. Runs synchronously; the request context
// cancels in-flight downloads.
func (s *Server) handleArchiveDownload(w http.ResponseWriter, r *http.Request) {
	var req archiveDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ItemID == "" {
		jsonError(w, "item_id is required", http.StatusBadRequest)
		return
	}
	if req.Dir == "" {
		jsonError(w, "dir is required", http.StatusBadRequest)
		return
	}

	opts := archive.DownloadOptions{
		Format: archive.Format(req.Format),
		Delay:  s.cfg.ArchiveDelay,
	}
	if req.DelayMs > 0 {
		opts.Delay = time.Duration(req.DelayMs) * time.Millisecond
	}

	n, err := s.archive.DownloadAll(r.Context(), req.ItemID, req.Dir, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"item_id":    req.ItemID,
		"dir":        req.Dir,
		"downloaded": n,
	})
}
