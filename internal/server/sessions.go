// Package server provides the HTTP surface for multi-tenant mode: the
// Fakturoid OAuth handshake endpoints and the bearer-protected MCP
// endpoint.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const (
	// sessionExpiry is how long an MCP session token stays valid after the
	// OAuth handshake. The underlying Fakturoid token refreshes itself;
	// this only bounds the session binding.
	sessionExpiry = 30 * 24 * time.Hour

	// stateExpiry controls how long an OAuth state value remains valid
	// between the authorize redirect and the callback.
	stateExpiry = 10 * time.Minute

	// cleanupInterval controls how often expired entries are reaped.
	cleanupInterval = 5 * time.Minute
)

// session binds an MCP bearer token to a Fakturoid user id.
type session struct {
	UserID    string
	ExpiresAt time.Time
}

type stateEntry struct {
	expiresAt time.Time
}

// Sessions holds in-memory handshake state: pending OAuth state values
// and issued MCP session tokens. Sessions are invalidated on restart;
// the durable credential lives in the token store keyed by user id.
type Sessions struct {
	mu       sync.RWMutex
	states   map[string]stateEntry
	sessions map[string]session
	stopGC   chan struct{}
}

// NewSessions creates an empty session registry and starts a background
// goroutine that reaps expired entries. Call Stop to clean it up.
func NewSessions() *Sessions {
	s := &Sessions{
		states:   make(map[string]stateEntry),
		sessions: make(map[string]session),
		stopGC:   make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

// Stop terminates the background cleanup goroutine.
func (s *Sessions) Stop() {
	close(s.stopGC)
}

func (s *Sessions) gcLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopGC:
			return
		}
	}
}

func (s *Sessions) cleanup() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, entry := range s.states {
		if now.After(entry.expiresAt) {
			delete(s.states, k)
		}
	}
	for k, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, k)
		}
	}
}

// NewState issues an opaque state value for the authorize redirect.
func (s *Sessions) NewState() string {
	state := randomHex(16)
	s.mu.Lock()
	s.states[state] = stateEntry{expiresAt: time.Now().Add(stateExpiry)}
	s.mu.Unlock()
	return state
}

// ConsumeState retrieves and deletes a state value. Returns false if the
// value is unknown, empty, or expired.
func (s *Sessions) ConsumeState(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(entry.expiresAt)
}

// NewSession issues a bearer token bound to a user id.
func (s *Sessions) NewSession(userID string) string {
	token := randomHex(32)
	s.mu.Lock()
	s.sessions[token] = session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionExpiry),
	}
	s.mu.Unlock()
	return token
}

// Resolve returns the user id behind a bearer token, or "" when the token
// is unknown or expired.
func (s *Sessions) Resolve(token string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return ""
	}
	return sess.UserID
}

// randomHex generates a cryptographically random hex string of the given
// byte length.
func randomHex(byteLen int) string {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
