// An explicit session registry for chat conversations. Sessions live in
// memory only; an idle sweep keeps abandoned ones from accumulating.

package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tejasnaik/watcharr/internal/assistant"
)

// Session is one browser tab's conversation with the assistant. Conv is
// mutated by every exchange, so messages on the same session must hold mu
// for the whole exchange; see Relay.ServeMessage.
type Session struct {
	ID         string
	Conv       *assistant.Conversation
	CreatedAt  time.Time
	LastActive time.Time

	mu sync.Mutex
}

// Lock serializes message exchanges on the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session for the next exchange.
func (s *Session) Unlock() { s.mu.Unlock() }

// Registry owns every active chat session, keyed by a server-generated id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new session around the given conversation and returns it.
func (r *Registry) Create(conv *assistant.Conversation) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		Conv:       conv,
		CreatedAt:  now,
		LastActive: now,
	}
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get looks up a session and marks it active.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if ok {
		sess.LastActive = time.Now()
	}
	return sess, ok
}

// Destroy removes a session. Destroying an unknown id is a no-op.
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle drops every session that has been inactive for longer than ttl
// and reports how many were removed.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, sess := range r.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}
