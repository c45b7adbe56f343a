package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/natetalley/batchin/internal/chunker"
	"github.com/natetalley/batchin/internal/config"
	"github.com/natetalley/batchin/internal/records"
)

// Orchestrator manages the dataset build pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *StageStats
	log   *slog.Logger
	cfg   config.Config

	chunkCfg   chunker.Config
	recordOpts records.Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	recordOpts := records.DefaultOptions()
	recordOpts.MinLineLen = cfg.MinLineLen
	recordOpts.MinHeadingChars = cfg.MinHeadingChars
	recordOpts.MaxHeadingChars = cfg.MaxHeadingChars
	recordOpts.MinSeparatorLen = cfg.MinSeparatorLen

	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: NewStageStats(cfg.StatsWindow),
		log:   log,
		cfg:   cfg,
		chunkCfg: chunker.Config{
			TargetWords:      cfg.TargetWords,
			OverlapSentences: cfg.OverlapSentences,
		},
		recordOpts: recordOpts,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, o.chunkCfg, o.recordOpts, o.cfg.PDFFallbackPdftotext, o.stats)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// FindJobByContent returns an existing non-failed job for the same
// uploaded content and mode.
func (o *Orchestrator) FindJobByContent(hash string, mode JobMode) *Job {
	return o.jobs.FindByContentHash(hash, mode)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats exposes the stage latency aggregator.
func (o *Orchestrator) Stats() *StageStats {
	return o.stats
}
