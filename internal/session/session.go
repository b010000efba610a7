// Package session implements the per-connection session registry: a
// bounded outbound message queue per connected agent, and an MCP session
// id store keyed off the Mcp-Session-Id / X-MCP-Session-ID transport
// headers.
package session

import (
	"sync"
	"time"

	"github.com/masc-mcp/masc-mcp/internal/ratelimit"
)

// defaultQueueDepth bounds how many outbound messages a Session buffers
// before it starts dropping and flagging overflow.
const defaultQueueDepth = 256

// Session tracks one connected agent's rate-limit state and outbound
// message queue.
type Session struct {
	mu           sync.Mutex
	AgentName    string
	RateTracker  *ratelimit.RateTracker
	queue        []any
	queueDepth   int
	Overflowed   bool
	ConnectedAt  time.Time
	LastActivity time.Time
}

// NewSession constructs a Session with the default queue depth.
func NewSession(agentName string) *Session {
	now := time.Now().UTC()
	return &Session{
		AgentName:    agentName,
		RateTracker:  ratelimit.NewRateTracker(nil),
		queueDepth:   defaultQueueDepth,
		ConnectedAt:  now,
		LastActivity: now,
	}
}

// Enqueue appends msg to the session's outbound queue. If the queue is at
// capacity, the oldest message is dropped and Overflowed is set; it stays
// set until drained by Flush, signaling to callers that the client may
// have missed deliveries.
func (s *Session) Enqueue(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) >= s.queueDepth {
		s.queue = s.queue[1:]
		s.Overflowed = true
	}
	s.queue = append(s.queue, msg)
	s.LastActivity = time.Now().UTC()
}

// Flush drains and returns all queued messages.
func (s *Session) Flush() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	s.Overflowed = false
	return out
}

// QueueLen reports the current queue depth.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
