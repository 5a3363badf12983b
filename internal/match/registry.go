// internal/match/registry.go
package match

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore is the process-wide table of live sessions, keyed by
// match ID. It is an explicit, injectable object rather than an
// ambient singleton: entries are inserted only by match creation or
// rehydration and removed only by the terminal-state transitions.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionStore initializes an empty registry.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*Session)}
}

// Get returns the live session for a match ID, if present.
func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Add registers a session. Adding an ID that is already present is a
// no-op returning the existing session, so concurrent rehydration
// attempts converge on one instance.
func (s *SessionStore) Add(sess *Session) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sess.MatchID]; ok {
		return existing
	}
	s.sessions[sess.MatchID] = sess
	return sess
}

// Delete removes a session from the registry.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
