// Handlers for the conversational recommendation assistant. Session
// creation snapshots the library into the system prompt; messages stream
// back over SSE through the relay.

package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tejasnaik/watcharr/internal/assistant"
	"github.com/tejasnaik/watcharr/internal/chat"
	"github.com/tejasnaik/watcharr/internal/models"
)

type createSessionRequest struct {
	Model string `json:"model"`
	// Library is an optional snapshot supplied by older clients. When
	// absent the server reads the library itself.
	Library []*models.WatchedItem `json:"library"`
}

// handleCreateChatSession registers a new assistant conversation seeded with
// the user's library and the catalog tool set.
func (s *Server) handleCreateChatSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	library := req.Library
	if library == nil {
		var err error
		library, err = s.store.ListItems("", "")
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	sess := s.registry.Create(&assistant.Conversation{
		Model:  req.Model,
		System: chat.SystemPrompt(library),
		Tools:  s.tools,
	})
	respondJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID})
}

type chatMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// handleChatMessage relays one message exchange as an SSE stream.
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, ok := s.registry.Get(req.SessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}

	s.relay.ServeMessage(r.Context(), w, sess, req.Message)
}

// handleDestroyChatSession removes a session. Cleanup is best-effort;
// destroying an unknown session still reports success.
func (s *Server) handleDestroyChatSession(w http.ResponseWriter, r *http.Request) {
	s.registry.Destroy(chi.URLParam(r, "sessionID"))
	respondOK(w)
}
