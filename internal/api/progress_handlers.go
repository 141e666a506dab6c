package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tejasnaik/watcharr/internal/models"
)

// handleGetProgress returns the series progress for a TMDB id, or JSON null
// when none has been recorded. Absent progress is not an error.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid TMDB ID")
		return
	}

	progress, err := s.store.GetProgress(tmdbID)
	if err == sql.ErrNoRows {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// handleUpsertProgress inserts or overwrites a series progress row.
func (s *Server) handleUpsertProgress(w http.ResponseWriter, r *http.Request) {
	var progress models.SeriesProgress
	if err := json.NewDecoder(r.Body).Decode(&progress); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if progress.TMDBID <= 0 {
		respondError(w, http.StatusBadRequest, "tmdbId is required")
		return
	}

	if err := s.store.UpsertProgress(&progress); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}
