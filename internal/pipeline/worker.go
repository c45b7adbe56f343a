package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/natetalley/batchin/internal/batch"
	"github.com/natetalley/batchin/internal/chunker"
	"github.com/natetalley/batchin/internal/parser"
	"github.com/natetalley/batchin/internal/records"
)

// Worker processes a single dataset build job.
type Worker struct {
	log         *slog.Logger
	chunkCfg    chunker.Config
	recordOpts  records.Options
	pdfFallback bool
	stats       *StageStats
}

func NewWorker(log *slog.Logger, chunkCfg chunker.Config, recordOpts records.Options, pdfFallback bool, stats *StageStats) *Worker {
	return &Worker{
		log:         log,
		chunkCfg:    chunkCfg,
		recordOpts:  recordOpts,
		pdfFallback: pdfFallback,
		stats:       stats,
	}
}

// parserFor selects the parser for a filename and applies worker-level
// parser settings to it.
func (w *Worker) parserFor(filename string) (parser.Parser, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}
	return p, nil
}

// Process runs the full build pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "mode", job.Mode, "filename", job.Filename)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	p, err := w.parserFor(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	text, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	w.stats.Record("parse", time.Since(start))

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2+3: segment and build, per mode.
	var lines []string
	switch job.Mode {
	case ModeRecords:
		lines, err = w.buildRecords(job, text)
	default:
		lines, err = w.buildDocsBatch(job, text)
	}
	if err != nil {
		log.Error("build failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "building")
		return
	}

	job.SetResult(lines)
	log.Info("build complete", "lines", len(lines))
	job.SetStatus(StatusCompleted, "done")
}

// buildDocsBatch chunks the parsed text and emits one batch inference
// request line per chunk.
func (w *Worker) buildDocsBatch(job *Job, text string) ([]string, error) {
	job.SetStatus(StatusChunking, "chunking")
	start := time.Now()
	chunks, err := chunker.Chunk(text, w.chunkCfg)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	w.stats.Record("chunk", time.Since(start))
	job.SetSegments(len(chunks))
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks produced")
	}

	job.SetStatus(StatusBuilding, "building")
	start = time.Now()
	lines := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		req := batch.DocRequest(i+1, job.Filename, i, chunk, batch.DefaultDocsPrompt, nil)
		line, err := batch.EncodeLine(req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	w.stats.Record("build", time.Since(start))
	return lines, nil
}

// buildRecords segments the parsed text into titled records and emits one
// JSONL line per record.
func (w *Worker) buildRecords(job *Job, text string) ([]string, error) {
	job.SetStatus(StatusSegmenting, "segmenting")
	start := time.Now()
	recs := records.Segment(text, w.recordOpts)
	w.stats.Record("segment", time.Since(start))
	job.SetSegments(len(recs))
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records produced")
	}

	job.SetStatus(StatusBuilding, "building")
	start = time.Now()
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		line, err := batch.EncodeLine(rec)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	w.stats.Record("build", time.Since(start))
	return lines, nil
}
