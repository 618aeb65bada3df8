// Package chat implements the conversational session state machine: bounded
// per-session history, tool-call dispatch into the analytic functions, and
// streaming response assembly.
package chat

import (
	"sync"

	"github.com/datachat-ai/datachat/internal/llm"
)

const (
	// promptHistoryLimit bounds how much stored history is folded into the
	// prompt for the next turn.
	promptHistoryLimit = 10
	// storedHistoryLimit bounds the persisted history after a turn's user
	// and assistant entries have been appended.
	storedHistoryLimit = 12
)

// SessionStore holds per-session conversation history in process memory.
// Sessions are created on first use and live for the process lifetime.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string][]llm.Message
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]llm.Message)}
}

// History truncates the session's stored history to the most recent
// promptHistoryLimit entries and returns a copy for prompt construction.
func (s *SessionStore) History(id string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.sessions[id]
	if len(h) > promptHistoryLimit {
		h = h[len(h)-promptHistoryLimit:]
		s.sessions[id] = h
	}
	return append([]llm.Message(nil), h...)
}

// Append adds messages to the session's history, then truncates it to the
// most recent storedHistoryLimit entries.
func (s *SessionStore) Append(id string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.sessions[id], msgs...)
	if len(h) > storedHistoryLimit {
		h = h[len(h)-storedHistoryLimit:]
	}
	s.sessions[id] = h
}

// Len returns the current stored history length for the session.
func (s *SessionStore) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[id])
}

// Clear removes the session entirely.
func (s *SessionStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Reset discards every session.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string][]llm.Message)
}
