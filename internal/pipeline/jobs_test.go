package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/document"
)

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting"},
		{StatusClassifying, "classifying"},
		{StatusDetecting, "detecting_structure"},
		{StatusEnriching, "enriching"},
		{StatusAssembling, "assembling"},
		{StatusStoring, "storing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("page extraction failed")
	job.AddError("structure detection failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page extraction failed" {
		t.Errorf("expected first error %q, got %q", "page extraction failed", snap.Progress.Errors[0])
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetTotalUnits(7)
	job.IncrUnitsEnriched()
	job.IncrUnitsEnriched()
	job.IncrUnitsEnriched()
	job.SetDroppedUnits(1)
	job.SetQuestionsFound(25)

	snap := job.Snapshot()
	if snap.Progress.TotalUnits != 7 {
		t.Errorf("expected 7 total units, got %d", snap.Progress.TotalUnits)
	}
	if snap.Progress.UnitsEnriched != 3 {
		t.Errorf("expected 3 enriched units, got %d", snap.Progress.UnitsEnriched)
	}
	if snap.Progress.DroppedUnits != 1 {
		t.Errorf("expected 1 dropped unit, got %d", snap.Progress.DroppedUnits)
	}
	if snap.Progress.QuestionsFound != 25 {
		t.Errorf("expected 25 questions, got %d", snap.Progress.QuestionsFound)
	}
}

func TestJob_SetOutcome(t *testing.T) {
	job := &Job{ID: "outcome-test", UpdatedAt: time.Now()}
	job.SetOutcome(14, "textbook", "outline")

	snap := job.Snapshot()
	if snap.TotalBoxes != 14 {
		t.Errorf("expected 14 total boxes, got %d", snap.TotalBoxes)
	}
	if snap.DocType != "textbook" {
		t.Errorf("expected doc type textbook, got %q", snap.DocType)
	}
	if snap.Strategy != "outline" {
		t.Errorf("expected strategy outline, got %q", snap.Strategy)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_ReleaseInput(t *testing.T) {
	job := &Job{ID: "release-test"}
	job.SetFileData([]byte("payload"))
	job.SetExtraction(&document.Extraction{
		Filename:   "a.txt",
		TotalPages: 1,
		Pages:      []document.Page{{PageNumber: 1, Text: "x"}},
	})

	job.ReleaseInput()

	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
	if job.Extraction() != nil {
		t.Error("expected extraction to be released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJob_SnapshotCopiesErrors(t *testing.T) {
	job := &Job{ID: "copy-test", UpdatedAt: time.Now()}
	job.AddError("first")

	snap := job.Snapshot()
	snap.Progress.Errors[0] = "mutated"

	if got := job.Snapshot().Progress.Errors[0]; got != "first" {
		t.Errorf("snapshot mutation leaked into job: %q", got)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_CleanupEvictsOnlyFinishedJobs(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	finished := &Job{ID: "finished", Status: StatusCompleted, UpdatedAt: time.Now()}
	inflight := &Job{ID: "inflight", Status: StatusEnriching, UpdatedAt: time.Now()}
	store.Put(finished)
	store.Put(inflight)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh finished job.
	fresh := &Job{ID: "fresh", Status: StatusFailed, UpdatedAt: time.Now()}
	store.Put(fresh)

	removed := store.Cleanup()
	if removed != 1 {
		t.Errorf("expected 1 eviction, got %d", removed)
	}
	if store.Get("finished") != nil {
		t.Error("expected stale finished job to be evicted")
	}
	if store.Get("inflight") == nil {
		t.Error("expected in-flight job to survive cleanup")
	}
	if store.Get("fresh") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 remaining jobs, got %d", store.Len())
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	if removed := store.Cleanup(); removed != 0 {
		t.Errorf("expected 0 evictions, got %d", removed)
	}
}

func TestNewJobStore_DefaultTTL(t *testing.T) {
	store := NewJobStore(0)
	done := &Job{ID: "done", Status: StatusCompleted, UpdatedAt: time.Now()}
	store.Put(done)

	// Zero TTL falls back to an hour, so a just-finished job survives.
	if removed := store.Cleanup(); removed != 0 {
		t.Errorf("expected no evictions with default TTL, got %d", removed)
	}
}
