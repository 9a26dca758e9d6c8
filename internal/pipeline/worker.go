package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docstruct/internal/assemble"
	"github.com/dgallion1/docstruct/internal/classify"
	"github.com/dgallion1/docstruct/internal/content"
	"github.com/dgallion1/docstruct/internal/docstore"
	"github.com/dgallion1/docstruct/internal/document"
	"github.com/dgallion1/docstruct/internal/extractor"
	"github.com/dgallion1/docstruct/internal/hierarchy"
	"github.com/dgallion1/docstruct/internal/infer"
	"github.com/dgallion1/docstruct/internal/questions"
)

// inferMaxPages caps how many pages are sent for structure inference.
const inferMaxPages = 20

// DocumentStore persists assembled artifacts.
type DocumentStore interface {
	Save(ctx context.Context, rec docstore.Record) error
}

// Worker processes a single document job.
type Worker struct {
	remote   *extractor.Client
	infer    *infer.Client
	store    DocumentStore
	detector *hierarchy.Detector
	log      *slog.Logger
	opts     WorkerOptions
}

// WorkerOptions are the per-worker processing knobs.
type WorkerOptions struct {
	ExtractOpts         extractor.Options
	MaxConcurrentEnrich int
	IncludeBoxText      bool
	PreviewMaxChars     int
}

// NewWorker builds a worker. remote selects the extraction service over
// local extraction when non-nil; inf enables model-assisted structure
// detection when non-nil.
func NewWorker(remote *extractor.Client, inf *infer.Client, store DocumentStore, detector *hierarchy.Detector, log *slog.Logger, opts WorkerOptions) *Worker {
	if opts.MaxConcurrentEnrich < 1 {
		opts.MaxConcurrentEnrich = 1
	}
	return &Worker{
		remote:   remote,
		infer:    inf,
		store:    store,
		detector: detector,
		log:      log,
		opts:     opts,
	}
}

// Process runs the full pipeline for a job: extract pages, classify,
// detect structure, enrich units, assemble artifacts, store.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)
	start := time.Now()

	// Phase 1: page extraction. Pre-extracted jobs skip straight to
	// validation.
	job.SetStatus(StatusExtracting, "extracting")
	ext := job.Extraction()
	if ext == nil {
		data := job.FileData()
		if len(data) == 0 {
			w.fail(job, log, "extracting", fmt.Errorf("%w: job has no file data", ErrInputNotFound))
			return
		}
		var err error
		ext, err = w.extractPages(ctx, data, job.Filename)
		if err != nil {
			w.fail(job, log, "extracting", err)
			return
		}
	}
	if err := ext.Validate(); err != nil {
		w.fail(job, log, "extracting", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
		return
	}
	ext.EnsureCharCounts()
	log.Info("extracted document",
		"pages", ext.TotalPages,
		"outline_entries", len(ext.Outline),
		"toc_candidates", len(ext.TOCCandidates))

	// Phase 2: classification.
	job.SetStatus(StatusClassifying, "classifying")
	scan := classify.DetectScan(ext.Pages)
	docType := classify.DetectDocType(ext.Filename, ext.Pages)
	log.Info("classified document",
		"is_scanned", scan.IsScanned, "scan_confidence", scan.Confidence,
		"doc_type", docType.Type, "type_confidence", docType.Confidence)

	// Phase 3: structure detection. When only the fallback partition is
	// available, a text document can be upgraded through inference.
	job.SetStatus(StatusDetecting, "detecting_structure")
	units, strategy := w.detector.Detect(ext)
	if strategy == hierarchy.StrategyFallback && w.infer != nil && !scan.IsScanned {
		inferred, err := w.inferStructure(ctx, ext, log)
		if err != nil {
			log.Warn("structure inference failed, keeping fallback", "error", err)
		} else {
			units = inferred
			strategy = hierarchy.StrategyInferred
		}
	}
	if len(units) == 0 {
		w.fail(job, log, "detecting_structure", fmt.Errorf("%w: no units detected", ErrStructureDetection))
		return
	}
	job.SetTotalUnits(len(units))
	log.Info("detected structure", "strategy", strategy, "units", len(units))

	// Phase 4: per-unit enrichment with bounded concurrency.
	job.SetStatus(StatusEnriching, "enriching")
	inputs := w.enrichUnits(job, ext, units)

	// Phase 5: question extraction for exam-style text documents.
	var qres *questions.Result
	if !scan.IsScanned && (docType.Type == classify.DocExercises || docType.Type == classify.DocPastQuestions) {
		r := questions.Extract(ext.Pages)
		qres = &r
		job.SetQuestionsFound(r.TotalQuestions)
		log.Info("extracted questions", "count", r.TotalQuestions)
	}

	// Phase 6: artifact assembly.
	job.SetStatus(StatusAssembling, "assembling")
	docInfo := assemble.DocumentInfo{
		ID:             job.DocID,
		Filename:       ext.Filename,
		Title:          ext.DisplayTitle(),
		DocType:        docType.Type,
		TypeConfidence: docType.Confidence,
		IsScanned:      scan.IsScanned,
		Scan:           scan,
		Strategy:       strategy,
		TotalPages:     ext.TotalPages,
		FileSizeBytes:  ext.FileSizeBytes,
		ProcessedAt:    time.Now().UTC(),
	}
	assembler := assemble.Assembler{IncludeText: w.opts.IncludeBoxText}
	full, index := assembler.Build(docInfo, inputs)
	job.SetDroppedUnits(full.Stats.DroppedUnits)
	if full.Stats.TotalBoxes == 0 {
		w.fail(job, log, "assembling", fmt.Errorf("%w: all units dropped", ErrUnitConstruction))
		return
	}

	// Phase 7: persistence.
	job.SetStatus(StatusStoring, "storing")
	fullJSON, err := json.Marshal(full)
	if err != nil {
		w.fail(job, log, "storing", fmt.Errorf("encode full artifact: %w", err))
		return
	}
	indexJSON, err := json.Marshal(index)
	if err != nil {
		w.fail(job, log, "storing", fmt.Errorf("encode index artifact: %w", err))
		return
	}
	var questionsJSON []byte
	if qres != nil {
		questionsJSON, err = json.Marshal(qres)
		if err != nil {
			w.fail(job, log, "storing", fmt.Errorf("encode questions: %w", err))
			return
		}
	}
	rec := docstore.Record{
		DocID:           job.DocID,
		Filename:        ext.Filename,
		Title:           docInfo.Title,
		DocType:         string(docType.Type),
		IsScanned:       scan.IsScanned,
		Strategy:        string(strategy),
		TotalPages:      ext.TotalPages,
		TotalBoxes:      full.Stats.TotalBoxes,
		HierarchyLevels: full.Stats.HierarchyLevels,
		FileSizeBytes:   ext.FileSizeBytes,
		ProcessedAt:     docInfo.ProcessedAt,
		FullJSON:        fullJSON,
		IndexJSON:       indexJSON,
		QuestionsJSON:   questionsJSON,
	}
	if err := w.store.Save(ctx, rec); err != nil {
		w.fail(job, log, "storing", fmt.Errorf("save document: %w", err))
		return
	}

	job.SetOutcome(full.Stats.TotalBoxes, string(docType.Type), string(strategy))
	job.SetStatus(StatusCompleted, "done")
	job.ReleaseInput()
	log.Info("processing complete",
		"doc_type", docType.Type, "strategy", strategy,
		"boxes", full.Stats.TotalBoxes, "dropped", full.Stats.DroppedUnits,
		"duration_ms", time.Since(start).Milliseconds())
}

func (w *Worker) fail(job *Job, log *slog.Logger, phase string, err error) {
	log.Error("processing failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}

// extractPages turns raw file bytes into the page model, through the
// remote service when one is configured.
func (w *Worker) extractPages(ctx context.Context, data []byte, filename string) (*document.Extraction, error) {
	if w.remote != nil {
		ext, err := w.remote.Extract(ctx, bytes.NewReader(data), filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return ext, nil
	}
	svc, err := extractor.ForFile(filename, w.opts.ExtractOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	ext, err := svc.Extract(ctx, bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return ext, nil
}

// inferStructure asks the model for top-level units and rebuilds the
// hierarchy from them. End pages are recomputed so the result keeps the
// same contiguity guarantees as every other strategy.
func (w *Worker) inferStructure(ctx context.Context, ext *document.Extraction, log *slog.Logger) ([]hierarchy.Unit, error) {
	prompt := infer.BuildStructurePrompt(ext.Filename, ext.Pages, inferMaxPages)

	var units []infer.Unit
	var lastErr error
	for attempt := range MaxRetries {
		units, lastErr = w.infer.InferUnits(ctx, prompt)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable inference error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	valid, err := infer.ValidateUnits(units, ext.TotalPages)
	if err != nil {
		return nil, err
	}
	cands := make([]hierarchy.Candidate, 0, len(valid))
	for _, u := range valid {
		cands = append(cands, hierarchy.Candidate{Title: u.Title, Level: 1, Page: u.StartPage})
	}
	built := hierarchy.Build(cands, ext.TotalPages)
	if len(built) < 2 {
		return nil, fmt.Errorf("%w: inference produced %d usable units", ErrStructureDetection, len(built))
	}
	return built, nil
}

// enrichUnits runs per-unit enrichment across a bounded worker set.
// Results land in a per-index slice so unit order is preserved.
func (w *Worker) enrichUnits(job *Job, ext *document.Extraction, units []hierarchy.Unit) []assemble.Input {
	inputs := make([]assemble.Input, len(units))
	sem := make(chan struct{}, w.opts.MaxConcurrentEnrich)
	var wg sync.WaitGroup
	for i, u := range units {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, u hierarchy.Unit) {
			defer wg.Done()
			defer func() { <-sem }()
			inputs[i] = w.enrichOne(ext, u)
			job.IncrUnitsEnriched()
		}(i, u)
	}
	wg.Wait()
	return inputs
}

// enrichOne classifies one unit and computes its content payload. Metrics
// run over the plain text; the stored payload carries page markers.
func (w *Worker) enrichOne(ext *document.Extraction, u hierarchy.Unit) assemble.Input {
	raw := ext.PageRangeText(u.PageStart, u.PageEnd)
	formatted := ext.FormattedRangeText(u.PageStart, u.PageEnd)
	hasImages := ext.HasImageInRange(u.PageStart, u.PageEnd)

	in := assemble.Input{
		Unit:      u,
		BoxType:   classify.ClassifyBoxType(u.Title, u.Level),
		Metrics:   content.Compute(raw, hasImages),
		Text:      formatted,
		CharCount: utf8.RuneCountInString(formatted),
		Preview:   preview(ext.PageText(u.PageStart), w.opts.PreviewMaxChars),
	}
	if info, ok := classify.DetectExercise(u.Title); ok {
		in.IsExercise = true
		in.ExerciseType = info.Type
		in.ExerciseNumber = info.Number
	}
	return in
}

// preview flattens whitespace and truncates to maxChars runes.
func preview(text string, maxChars int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= maxChars {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:maxChars]) + "..."
}
