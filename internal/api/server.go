// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tejasnaik/watcharr/internal/assistant"
	"github.com/tejasnaik/watcharr/internal/chat"
	"github.com/tejasnaik/watcharr/internal/core"
	"github.com/tejasnaik/watcharr/internal/store"
	"github.com/tejasnaik/watcharr/internal/tmdb"
)

// Server holds the dependencies for our API.
type Server struct {
	app      *core.App
	db       *sql.DB
	store    *store.Store
	registry *chat.Registry
	relay    *chat.Relay
	tools    []assistant.Tool
	statuses map[string]struct{}
}

// NewServer creates a new Server instance wired to the real assistant and
// catalog clients.
func NewServer(app *core.App) *Server {
	assistantClient := assistant.NewClient(app.Config.Assistant.APIKey, app.Config.Assistant.Model)
	tmdbClient := tmdb.NewClient(app.Config.TMDB.Token)

	statuses := make(map[string]struct{})
	for _, st := range app.Config.Statuses() {
		statuses[st] = struct{}{}
	}

	return &Server{
		app:      app,
		db:       app.DB,
		store:    store.New(app.DB),
		registry: chat.NewRegistry(),
		relay:    chat.NewRelay(assistantClient),
		tools:    tmdbClient.Tools(),
		statuses: statuses,
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Registry returns the chat session registry.
func (s *Server) Registry() *chat.Registry {
	return s.registry
}

// SetRelay swaps the chat relay for testing purposes
func (s *Server) SetRelay(relay *chat.Relay) {
	s.relay = relay
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api", func(r chi.Router) {
		// Library, progress, episode and settings routes are plain
		// request/response and get the standard timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/library", s.handleListItems)
			r.Get("/library/export", s.handleExportLibrary)
			r.Get("/library/{tmdbID}/{contentType}", s.handleGetItem)
			r.Post("/library", s.handleAddItem)
			r.Patch("/library/{id}", s.handleUpdateItem)
			r.Delete("/library/{id}", s.handleDeleteItem)
			r.Post("/library/clear", s.handleClearLibrary)

			r.Get("/progress/{tmdbID}", s.handleGetProgress)
			r.Put("/progress", s.handleUpsertProgress)

			r.Get("/episodes/{tmdbID}/{season}", s.handleListEpisodes)
			r.Post("/episodes/toggle", s.handleToggleEpisode)
			r.Post("/episodes/import", s.handleImportEpisodes)
			r.Post("/episodes/season", s.handleMarkSeason)

			r.Post("/migrate", s.handleMigrate)

			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleSaveSettings)
		})

		// Chat messages stream over SSE and may legitimately outlive the
		// standard timeout; the relay enforces its own bound.
		r.Route("/chat", func(r chi.Router) {
			r.Post("/session", s.handleCreateChatSession)
			r.Post("/message", s.handleChatMessage)
			r.Delete("/session/{sessionID}", s.handleDestroyChatSession)
		})
	})

	return r
}

// validStatus reports whether a status value belongs to the configured
// vocabulary.
func (s *Server) validStatus(status string) bool {
	_, ok := s.statuses[status]
	return ok
}
