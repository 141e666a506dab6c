package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tejasnaik/watcharr/internal/models"
)

// handleListEpisodes returns the watched episodes for one season.
func (s *Server) handleListEpisodes(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid TMDB ID")
		return
	}
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid season number")
		return
	}

	episodes, err := s.store.ListEpisodes(tmdbID, season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, episodes)
}

type toggleEpisodeRequest struct {
	TMDBID  int64 `json:"tmdbId"`
	Season  int   `json:"season"`
	Episode int   `json:"episode"`
}

// handleToggleEpisode flips the watched state of one episode and reports
// whether the mark was added or removed.
func (s *Server) handleToggleEpisode(w http.ResponseWriter, r *http.Request) {
	var req toggleEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action, err := s.store.ToggleEpisode(req.TMDBID, req.Season, req.Episode)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"action": action})
}

type importEpisodesRequest struct {
	Entries []*models.WatchedEpisode `json:"entries"`
}

// handleImportEpisodes bulk-inserts watch marks with insert-or-ignore
// semantics, used by the JSON import flow.
func (s *Server) handleImportEpisodes(w http.ResponseWriter, r *http.Request) {
	var req importEpisodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.BulkInsertEpisodes(req.Entries); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}

type markSeasonRequest struct {
	TMDBID   int64 `json:"tmdbId"`
	Season   int   `json:"season"`
	Episodes []int `json:"episodes"`
}

// handleMarkSeason replaces the watched set for a whole season. An empty
// episode list unmarks the season entirely.
func (s *Server) handleMarkSeason(w http.ResponseWriter, r *http.Request) {
	var req markSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.MarkSeasonWatched(req.TMDBID, req.Season, req.Episodes); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}
