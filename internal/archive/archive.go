// Package archive downloads text and PDF source material from
// archive.org items for dataset building.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is the public archive.org endpoint.
const DefaultBaseURL = "https://archive.org"

// DefaultDelay throttles consecutive downloads from the same item.
const DefaultDelay = 1500 * time.Millisecond

// Format selects which file kinds DownloadAll fetches.
type Format string

const (
	FormatText Format = "Text"
	FormatPDF  Format = "PDF"
	FormatBoth Format = "Both"
)

// File is one entry of an item's file listing.
type File struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   string `json:"size"`
}

// Client communicates with the archive.org HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// Item fetches the file listing of an item.
func (c *Client) Item(ctx context.Context, id string) ([]File, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty item identifier")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get item %s: status %d: %s", id, resp.StatusCode, string(body))
	}

	var meta struct {
		Files []File `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	if len(meta.Files) == 0 {
		return nil, fmt.Errorf("no files found for item %s", id)
	}
	return meta.Files, nil
}

// Download streams one file of an item to dst.
func (c *Client) Download(ctx context.Context, id string, f File, dst string) error {
	u := c.baseURL + "/download/" + url.PathEscape(id) + "/" + url.PathEscape(f.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", f.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", f.Name, resp.StatusCode)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return out.Close()
}

// DownloadOptions configure DownloadAll.
type DownloadOptions struct {
	Format Format        // Defaults to FormatBoth.
	Delay  time.Duration // Pause between downloads. Defaults to DefaultDelay.
}

// DownloadAll fetches every matching file of an item into dir, pausing
// between downloads. Individual failures are logged and skipped; the
// returned count is the number of files written.
func (c *Client) DownloadAll(ctx context.Context, id, dir string, opts DownloadOptions) (int, error) {
	if opts.Format == "" {
		opts.Format = FormatBoth
	}
	if opts.Delay < 0 {
		opts.Delay = DefaultDelay
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	files, err := c.Item(ctx, id)
	if err != nil {
		return 0, err
	}

	matching := filterFiles(files, opts.Format)
	if len(matching) == 0 {
		return 0, fmt.Errorf("no %s files found for item %s", strings.ToLower(string(opts.Format)), id)
	}

	downloaded := 0
	for i, f := range matching {
		dst := filepath.Join(dir, filepath.Base(f.Name))
		if err := c.Download(ctx, id, f, dst); err != nil {
			c.logger.Warn("download failed", "item", id, "file", f.Name, "error", err)
			continue
		}
		downloaded++
		c.logger.Info("downloaded", "item", id, "file", f.Name, "progress", fmt.Sprintf("%d/%d", downloaded, len(matching)))

		if i < len(matching)-1 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return downloaded, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return downloaded, nil
}

// filterFiles keeps text and/or PDF entries, matching either the declared
// format or the filename suffix.
func filterFiles(files []File, format Format) []File {
	var out []File
	for _, f := range files {
		isText := f.Format == "Text" || strings.HasSuffix(f.Name, ".txt")
		isPDF := f.Format == "PDF" || strings.HasSuffix(f.Name, ".pdf")

		switch format {
		case FormatText:
			if isText {
				out = append(out, f)
			}
		case FormatPDF:
			if isPDF {
				out = append(out, f)
			}
		default:
			if isText || isPDF {
				out = append(out, f)
			}
		}
	}
	return out
}
