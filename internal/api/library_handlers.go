// Handlers for the library endpoints. Each handler parses and validates the
// request shape, invokes exactly one store operation, and serializes the
// result; no business logic lives here.

package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tejasnaik/watcharr/internal/models"
	"github.com/tejasnaik/watcharr/internal/store"
)

// parseItemUpdate converts a loosely-shaped PATCH body into an explicit
// partial update, recording which keys were actually present.
func (s *Server) parseItemUpdate(body map[string]json.RawMessage) (store.ItemUpdate, error) {
	var update store.ItemUpdate

	stringField := func(key string) (*string, error) {
		raw, ok := body[key]
		if !ok {
			return nil, nil
		}
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("invalid %s", key)
		}
		return v, nil
	}

	var err error
	if update.Title, err = stringField("title"); err != nil {
		return update, err
	}
	if update.PosterPath, err = stringField("posterPath"); err != nil {
		return update, err
	}
	if update.ReleaseDate, err = stringField("releaseDate"); err != nil {
		return update, err
	}
	if update.Status, err = stringField("status"); err != nil {
		return update, err
	}
	if update.Status != nil && !s.validStatus(*update.Status) {
		return update, fmt.Errorf("invalid status %q", *update.Status)
	}
	if update.Notes, err = stringField("notes"); err != nil {
		return update, err
	}

	if raw, ok := body["userRating"]; ok {
		update.UserRatingSet = true
		if err := json.Unmarshal(raw, &update.UserRating); err != nil {
			return update, fmt.Errorf("invalid userRating")
		}
	}
	if raw, ok := body["genreIds"]; ok {
		update.GenreIDsSet = true
		if err := json.Unmarshal(raw, &update.GenreIDs); err != nil {
			return update, fmt.Errorf("invalid genreIds")
		}
	}
	return update, nil
}

// handleListItems returns library items, optionally filtered by
// ?contentType= and ?status=.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("contentType")
	status := r.URL.Query().Get("status")

	items, err := s.store.ListItems(contentType, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// handleGetItem looks up one item by (tmdbID, contentType).
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid TMDB ID")
		return
	}
	contentType := chi.URLParam(r, "contentType")

	item, err := s.store.GetItemByTMDBID(tmdbID, contentType)
	if err == sql.ErrNoRows {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// addItemRequest is the POST /api/library body.
type addItemRequest struct {
	TMDBID      int64   `json:"tmdbId"`
	ContentType string  `json:"contentType"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"posterPath"`
	ReleaseDate *string `json:"releaseDate"`
	Status      string  `json:"status"`
	UserRating  *int    `json:"userRating"`
	Notes       string  `json:"notes"`
	GenreIDs    []int64 `json:"genreIds"`
}

// handleAddItem adds an item to the library. Adding an item that already
// exists returns the existing id unchanged.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TMDBID <= 0 || req.Title == "" {
		respondError(w, http.StatusBadRequest, "tmdbId and title are required")
		return
	}
	if req.ContentType != models.ContentTypeMovie && req.ContentType != models.ContentTypeSeries {
		respondError(w, http.StatusBadRequest, "Invalid contentType")
		return
	}
	if !s.validStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	id, err := s.store.AddItem(&models.WatchedItem{
		TMDBID:      req.TMDBID,
		ContentType: req.ContentType,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		ReleaseDate: req.ReleaseDate,
		Status:      req.Status,
		UserRating:  req.UserRating,
		Notes:       req.Notes,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// handleUpdateItem applies a partial update. The body is inspected key by
// key so "userRating": null (clear the rating) can be told apart from the
// key being absent.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, err := s.parseItemUpdate(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateItem(id, update); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}

// handleDeleteItem removes an item and its series progress.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	if err := s.store.DeleteItem(id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}

// handleClearLibrary wipes every item, progress row and episode mark.
func (s *Server) handleClearLibrary(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearAll(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w)
}

// handleExportLibrary returns the minimal portable export of the library.
func (s *Server) handleExportLibrary(w http.ResponseWriter, r *http.Request) {
	export, err := s.store.ExportAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, export)
}

// handleMigrate imports a full snapshot from the browser-local store. This
// is the one endpoint expected to occasionally fail on malformed bulk input,
// surfaced as a 500 with the error text.
func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	var payload models.MigrationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusInternalServerError, "Invalid migration payload: "+err.Error())
		return
	}
	if err := s.store.Migrate(&payload); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Migration complete"})
}
