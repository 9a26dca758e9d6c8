package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a document id has no stored record, or
// when the requested artifact was never produced for it.
var ErrNotFound = errors.New("document not found")

// Schema for the documents table. Call Store.Init() or apply manually.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	title TEXT NOT NULL,
	doc_type TEXT NOT NULL,
	is_scanned INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	total_pages INTEGER NOT NULL,
	total_boxes INTEGER NOT NULL,
	hierarchy_levels INTEGER NOT NULL,
	file_size_bytes INTEGER NOT NULL,
	processed_at INTEGER NOT NULL,
	full_json TEXT NOT NULL,
	index_json TEXT NOT NULL,
	questions_json TEXT
);
CREATE INDEX IF NOT EXISTS idx_documents_processed ON documents(processed_at);
`

// Store persists assembled artifacts in SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store from an already-opened database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the documents table if it doesn't exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Record is one processed document with its artifacts. QuestionsJSON is
// nil for documents that went through without question extraction.
type Record struct {
	DocID           string
	Filename        string
	Title           string
	DocType         string
	IsScanned       bool
	Strategy        string
	TotalPages      int
	TotalBoxes      int
	HierarchyLevels int
	FileSizeBytes   int64
	ProcessedAt     time.Time
	FullJSON        []byte
	IndexJSON       []byte
	QuestionsJSON   []byte
}

// Save upserts a record. Reprocessing a document id replaces its artifacts.
func (s *Store) Save(ctx context.Context, rec Record) error {
	var questions any
	if rec.QuestionsJSON != nil {
		questions = string(rec.QuestionsJSON)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, filename, title, doc_type, is_scanned, strategy,
			total_pages, total_boxes, hierarchy_levels, file_size_bytes, processed_at,
			full_json, index_json, questions_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			doc_type = excluded.doc_type,
			is_scanned = excluded.is_scanned,
			strategy = excluded.strategy,
			total_pages = excluded.total_pages,
			total_boxes = excluded.total_boxes,
			hierarchy_levels = excluded.hierarchy_levels,
			file_size_bytes = excluded.file_size_bytes,
			processed_at = excluded.processed_at,
			full_json = excluded.full_json,
			index_json = excluded.index_json,
			questions_json = excluded.questions_json`,
		rec.DocID, rec.Filename, rec.Title, rec.DocType, boolToInt(rec.IsScanned), rec.Strategy,
		rec.TotalPages, rec.TotalBoxes, rec.HierarchyLevels, rec.FileSizeBytes, rec.ProcessedAt.Unix(),
		string(rec.FullJSON), string(rec.IndexJSON), questions)
	if err != nil {
		return fmt.Errorf("save document %s: %w", rec.DocID, err)
	}
	return nil
}

// GetFull returns the stored full artifact JSON.
func (s *Store) GetFull(ctx context.Context, docID string) ([]byte, error) {
	return s.getArtifact(ctx, docID, "full_json")
}

// GetIndex returns the stored index artifact JSON.
func (s *Store) GetIndex(ctx context.Context, docID string) ([]byte, error) {
	return s.getArtifact(ctx, docID, "index_json")
}

// GetQuestions returns the stored questions JSON. ErrNotFound covers both
// a missing document and a document without extracted questions.
func (s *Store) GetQuestions(ctx context.Context, docID string) ([]byte, error) {
	return s.getArtifact(ctx, docID, "questions_json")
}

// getArtifact reads one artifact column. column comes from the fixed
// callers above, never from input.
func (s *Store) getArtifact(ctx context.Context, docID, column string) ([]byte, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT "+column+" FROM documents WHERE doc_id = ?", docID).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", docID, err)
	}
	if !v.Valid {
		return nil, ErrNotFound
	}
	return []byte(v.String), nil
}

// Summary is one row of the document listing.
type Summary struct {
	DocID           string    `json:"doc_id"`
	Filename        string    `json:"filename"`
	Title           string    `json:"title"`
	DocType         string    `json:"doc_type"`
	IsScanned       bool      `json:"is_scanned"`
	Strategy        string    `json:"strategy"`
	TotalPages      int       `json:"total_pages"`
	TotalBoxes      int       `json:"total_boxes"`
	HierarchyLevels int       `json:"hierarchy_levels"`
	HasQuestions    bool      `json:"has_questions"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// List returns stored documents, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, filename, title, doc_type, is_scanned, strategy,
			total_pages, total_boxes, hierarchy_levels,
			questions_json IS NOT NULL, processed_at
		FROM documents
		ORDER BY processed_at DESC, doc_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var scanned, hasQuestions int
		var processedAt int64
		if err := rows.Scan(&sum.DocID, &sum.Filename, &sum.Title, &sum.DocType, &scanned,
			&sum.Strategy, &sum.TotalPages, &sum.TotalBoxes, &sum.HierarchyLevels,
			&hasQuestions, &processedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		sum.IsScanned = scanned != 0
		sum.HasQuestions = hasQuestions != 0
		sum.ProcessedAt = time.Unix(processedAt, 0).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a stored document.
func (s *Store) Delete(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
