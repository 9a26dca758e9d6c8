package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:         1,
		MaxQueueSize:        4,
		MaxConcurrentEnrich: 2,
		JobTTL:              time.Hour,
		FallbackPageSize:    15,
		IncludeBoxText:      true,
		PreviewMaxChars:     120,
	}
}

func waitForStatus(t *testing.T, job *Job, want JobStatus, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status == want {
			return
		}
		if snap.Status == StatusFailed && want != StatusFailed {
			t.Fatalf("job failed: %v", snap.Progress.Errors)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %q, last status %q", want, job.Snapshot().Status)
}

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	store := &captureStore{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := NewOrchestrator(testConfig(), nil, nil, store, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Start(ctx)
	defer o.Stop()

	job := newTestJob("plant_biology_notes.txt", []byte(plantsPage+"\f"+animalsPage))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	waitForStatus(t, job, StatusCompleted, 5*time.Second)

	if got := o.GetJob(job.ID); got != job {
		t.Error("expected submitted job to be retrievable by id")
	}
	if rec := store.last(t); rec.DocID != job.DocID {
		t.Errorf("expected stored record for %q, got %q", job.DocID, rec.DocID)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Never started, so the queue fills without draining.
	o := NewOrchestrator(cfg, nil, nil, &captureStore{}, log)

	first := newTestJob("a.txt", []byte("alpha"))
	if err := o.Submit(first); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second := newTestJob("b.txt", []byte("beta"))
	err := o.Submit(second)
	if err == nil {
		t.Fatal("expected queue full error")
	}
	if !strings.Contains(err.Error(), "queue is full") {
		t.Errorf("unexpected error %v", err)
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be marked failed, got %q", second.Snapshot().Status)
	}
	if second.Snapshot().Phase != "queue_full" {
		t.Errorf("expected queue_full phase, got %q", second.Snapshot().Phase)
	}

	// Both jobs stay queryable for status polling.
	if o.GetJob(first.ID) == nil || o.GetJob(second.ID) == nil {
		t.Error("expected both jobs in the registry")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
