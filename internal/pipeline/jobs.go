package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/document"
)

// JobStatus represents the state of a processing job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusClassifying JobStatus = "classifying"
	StatusDetecting   JobStatus = "detecting_structure"
	StatusEnriching   JobStatus = "enriching"
	StatusAssembling  JobStatus = "assembling"
	StatusStoring     JobStatus = "storing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Progress tracks processing progress.
type Progress struct {
	TotalUnits     int      `json:"total_units"`
	UnitsEnriched  int      `json:"units_enriched"`
	DroppedUnits   int      `json:"dropped_units"`
	QuestionsFound int      `json:"questions_found"`
	Errors         []string `json:"errors"`
}

// Job tracks the state of a single document run.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	TotalBoxes int    `json:"total_boxes,omitempty"`
	DocType    string `json:"doc_type,omitempty"`
	Strategy   string `json:"strategy,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData   []byte
	extraction *document.Extraction
	errors     []string
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes finished jobs whose last update is older than the TTL.
// Jobs still in flight are never evicted.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		done := job.Status == StatusCompleted || job.Status == StatusFailed
		stale := job.UpdatedAt.Before(cutoff)
		job.mu.Unlock()
		if done && stale {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetExtraction stores a pre-extracted document, bypassing file extraction.
func (j *Job) SetExtraction(ext *document.Extraction) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.extraction = ext
}

// Extraction returns the pre-extracted document, if any.
func (j *Job) Extraction() *document.Extraction {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.extraction
}

// ReleaseInput drops the raw file bytes and extraction once processing
// is finished, so completed jobs do not pin large buffers until eviction.
func (j *Job) ReleaseInput() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
	j.extraction = nil
}

// SetTotalUnits records how many units structure detection produced.
func (j *Job) SetTotalUnits(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalUnits = n
	j.UpdatedAt = time.Now()
}

// IncrUnitsEnriched atomically increments the enriched unit count.
func (j *Job) IncrUnitsEnriched() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.UnitsEnriched++
	j.UpdatedAt = time.Now()
}

// SetDroppedUnits records how many units the assembler discarded.
func (j *Job) SetDroppedUnits(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DroppedUnits = n
	j.UpdatedAt = time.Now()
}

// SetQuestionsFound records the question count from exam-style documents.
func (j *Job) SetQuestionsFound(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.QuestionsFound = n
	j.UpdatedAt = time.Now()
}

// SetOutcome records the final document summary on the job.
func (j *Job) SetOutcome(totalBoxes int, docType, strategy string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.TotalBoxes = totalBoxes
	j.DocType = docType
	j.Strategy = strategy
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	DocID      string    `json:"doc_id"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Filename   string    `json:"filename"`
	Progress   Progress  `json:"progress"`
	TotalBoxes int       `json:"total_boxes,omitempty"`
	DocType    string    `json:"doc_type,omitempty"`
	Strategy   string    `json:"strategy,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			TotalUnits:     j.Progress.TotalUnits,
			UnitsEnriched:  j.Progress.UnitsEnriched,
			DroppedUnits:   j.Progress.DroppedUnits,
			QuestionsFound: j.Progress.QuestionsFound,
			Errors:         errs,
		},
		TotalBoxes: j.TotalBoxes,
		DocType:    j.DocType,
		Strategy:   j.Strategy,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}
