package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
)

// HeaderMcpSessionID and HeaderXMcpSessionID are the two header names
// transports may use to carry a session id; SessionIDFromHeaders checks
// both, preferring the canonical one.
const (
	HeaderMcpSessionID  = "Mcp-Session-Id"
	HeaderXMcpSessionID = "X-MCP-Session-ID"
)

// sessionIDPrefix marks every id this store mints as belonging to this
// protocol, so a stray header value from another subsystem is never
// mistaken for one of ours.
const sessionIDPrefix = "mcp_"

// NewSessionID mints a fresh "mcp_"+32 hex character session id.
func NewSessionID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("session: generating id: %w", err)
	}
	return sessionIDPrefix + hex.EncodeToString(raw), nil
}

// McpSessionStore holds one Session per live transport connection.
type McpSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMcpSessionStore constructs an empty store.
func NewMcpSessionStore() *McpSessionStore {
	return &McpSessionStore{sessions: make(map[string]*Session)}
}

// Create mints a new session id for agentName and registers its Session.
func (s *McpSessionStore) Create(agentName string) (string, *Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return "", nil, err
	}
	sess := NewSession(agentName)
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return id, sess, nil
}

// Get returns the Session for id, if any.
func (s *McpSessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove drops the session associated with id.
func (s *McpSessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count reports how many sessions are currently live.
func (s *McpSessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SessionIDFromHeaders extracts a session id from an HTTP-like header
// set, checking HeaderMcpSessionID first and falling back to
// HeaderXMcpSessionID.
func SessionIDFromHeaders(h http.Header) string {
	if id := h.Get(HeaderMcpSessionID); id != "" {
		return id
	}
	return h.Get(HeaderXMcpSessionID)
}
