// Package handover implements the context-exhaustion hand-off protocol:
// an agent that is about to run out of context budget records a Record
// describing its progress and open threads, which any other agent (or a
// specifically named successor) can later claim and pick up from.
// Records are persisted through storage.Backend so they survive a
// process restart.
package handover

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/masc-mcp/masc-mcp/internal/storage"
)

var (
	// ErrNotFound is returned when a handover id is unknown.
	ErrNotFound = errors.New("handover: record not found")
	// ErrAlreadyClaimed is returned when Claim targets a record that
	// already has a successor.
	ErrAlreadyClaimed = errors.New("handover: already claimed")
)

// TriggerReason identifies why a handover was created.
type TriggerReason int

const (
	TriggerContextExhaustion TriggerReason = iota
	TriggerManual
	TriggerError
)

// String renders a TriggerReason for display and markdown rendering.
func (t TriggerReason) String() string {
	switch t {
	case TriggerContextExhaustion:
		return "context_exhaustion"
	case TriggerManual:
		return "manual"
	case TriggerError:
		return "error"
	default:
		return "unknown"
	}
}

// Record is one hand-off: the departing agent's summary of progress, and
// (once claimed) the successor that picked it up.
type Record struct {
	ID          string        `json:"id"`
	FromAgent   string        `json:"from_agent"`
	ToAgent     string        `json:"to_agent,omitempty"` // empty: claimable by any agent
	TaskID      string        `json:"task_id,omitempty"`
	Reason      TriggerReason `json:"reason"`
	Summary     string        `json:"summary"`
	OpenThreads []string      `json:"open_threads"`
	CreatedAt   time.Time     `json:"created_at"`
	ClaimedAt   *time.Time    `json:"claimed_at,omitempty"`
	ClaimedBy   string        `json:"claimed_by,omitempty"`
}

// Store persists Records through a storage.Backend, namespaced per room.
type Store struct {
	backend storage.Backend
	room    string
}

// NewStore constructs a Store for room over backend.
func NewStore(room string, backend storage.Backend) *Store {
	return &Store{backend: backend, room: room}
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("rooms:%s:handovers:%s", s.room, id)
}

func (s *Store) prefix() string {
	return fmt.Sprintf("rooms:%s:handovers:", s.room)
}

// Create records a new handover and returns it. toAgent may be empty to
// mean "claimable by any agent".
func (s *Store) Create(fromAgent, toAgent, taskID string, reason TriggerReason, summary string, openThreads []string) (Record, error) {
	rec := Record{
		ID:          uuid.NewString(),
		FromAgent:   fromAgent,
		ToAgent:     toAgent,
		TaskID:      taskID,
		Reason:      reason,
		Summary:     summary,
		OpenThreads: openThreads,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.save(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.backend.Set(s.key(rec.ID), data)
}

// Load returns the Record with id.
func (s *Store) Load(id string) (Record, error) {
	data, err := s.backend.Get(s.key(id))
	if err != nil {
		if err == storage.ErrNotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns every handover record in the room.
func (s *Store) List() ([]Record, error) {
	keys, err := s.backend.List(s.prefix())
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		data, err := s.backend.Get(k)
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetPending returns every unclaimed record that is either open to any
// agent or specifically addressed to agentName.
func (s *Store) GetPending(agentName string) ([]Record, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range all {
		if rec.ClaimedAt != nil {
			continue
		}
		if rec.ToAgent == "" || rec.ToAgent == agentName {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Claim atomically assigns record id to claimant. It fails if already
// claimed, or if the record was addressed to a different agent.
func (s *Store) Claim(id, claimant string) (Record, error) {
	rec, err := s.Load(id)
	if err != nil {
		return Record{}, err
	}
	if rec.ClaimedAt != nil {
		return Record{}, ErrAlreadyClaimed
	}
	if rec.ToAgent != "" && rec.ToAgent != claimant {
		return Record{}, ErrAlreadyClaimed
	}
	now := time.Now().UTC()
	rec.ClaimedAt = &now
	rec.ClaimedBy = claimant
	if err := s.save(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// FormatAsMarkdown renders rec as a successor-readable markdown document.
func FormatAsMarkdown(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Handover from %s\n\n", rec.FromAgent)
	fmt.Fprintf(&b, "- Reason: %s\n", rec.Reason)
	fmt.Fprintf(&b, "- Created: %s\n", rec.CreatedAt.Format(time.RFC3339))
	if rec.TaskID != "" {
		fmt.Fprintf(&b, "- Task: %s\n", rec.TaskID)
	}
	b.WriteString("\n## Summary\n\n")
	b.WriteString(rec.Summary)
	b.WriteString("\n")
	if len(rec.OpenThreads) > 0 {
		b.WriteString("\n## Open threads\n\n")
		for _, t := range rec.OpenThreads {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	return b.String()
}

// BuildSuccessorPrompt renders the prompt a successor agent should be
// started with, wrapping the markdown rendering with an explicit
// resume-from-here instruction.
func BuildSuccessorPrompt(rec Record) string {
	return "You are picking up work handed off by another agent. Read the following context and continue.\n\n" + FormatAsMarkdown(rec)
}
