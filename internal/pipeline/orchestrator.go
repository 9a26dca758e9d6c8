package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/extractor"
	"github.com/dgallion1/docstruct/internal/hierarchy"
	"github.com/dgallion1/docstruct/internal/infer"
)

// Orchestrator manages the document processing pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	remote   *extractor.Client
	infer    *infer.Client
	store    DocumentStore
	detector *hierarchy.Detector
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. remote and inf may be nil to run
// with local extraction and without model-assisted detection.
func NewOrchestrator(cfg config.Config, remote *extractor.Client, inf *infer.Client, store DocumentStore, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		remote:   remote,
		infer:    inf,
		store:    store,
		detector: hierarchy.NewDetector(cfg.FallbackPageSize),
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := WorkerOptions{
		ExtractOpts:         extractor.Options{PDFPlainTextFallback: o.cfg.PDFPlainTextFallback},
		MaxConcurrentEnrich: o.cfg.MaxConcurrentEnrich,
		IncludeBoxText:      o.cfg.IncludeBoxText,
		PreviewMaxChars:     o.cfg.PreviewMaxChars,
	}

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.remote, o.infer, o.store, o.detector, o.log, opts)
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

	// Evict finished jobs periodically.
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
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("evicted finished jobs", "count", n)
				}
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

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
