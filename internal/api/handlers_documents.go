package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docstruct/internal/docstore"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists processed documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.log.Error("list documents", "error", err)
		jsonError(w, "failed to list documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// Artifacts are stored as finished JSON, so the handlers pass the stored
// bytes through untouched.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.store.GetFull)
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.store.GetIndex)
}

func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.store.GetQuestions)
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, get func(context.Context, string) ([]byte, error)) {
	docID := chi.URLParam(r, "docID")
	data, err := get(r.Context(), docID)
	if errors.Is(err, docstore.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("read artifact", "doc_id", docID, "error", err)
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDeleteDocument removes a stored document and its artifacts.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	err := s.store.Delete(r.Context(), docID)
	if errors.Is(err, docstore.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete document", "doc_id", docID, "error", err)
		jsonError(w, "failed to delete document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": docID})
}
