// Package planning manages per-task working artifacts: a plan document,
// freeform notes, a running error log, a deliverable summary, and a small
// JSON context blob, plus a current-task pointer agents can use instead of
// passing a task id on every call.
package planning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/masc-mcp/masc-mcp/internal/storage"
)

// Context is the small structured blob persisted alongside the freeform
// markdown artifacts for a task.
type Context struct {
	TaskID    string            `json:"task_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ErrorEntry is one recorded failure against a task, resolvable later.
type ErrorEntry struct {
	ID         string     `json:"id"`
	Message    string     `json:"message"`
	RecordedAt time.Time  `json:"recorded_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Store persists planning artifacts through a storage.Backend, namespaced
// per room and task.
type Store struct {
	backend storage.Backend
	room    string
}

// NewStore constructs a Store for room.
func NewStore(room string, backend storage.Backend) *Store {
	return &Store{backend: backend, room: room}
}

func (s *Store) artifactKey(taskID, artifact string) string {
	return fmt.Sprintf("rooms:%s:planning:%s:%s", s.room, taskID, artifact)
}

// Init creates the context blob for taskID. Safe to call on an
// already-initialized task; an existing context blob is left untouched.
// The plan, notes, errors, and deliverable artifacts are created by their
// first write, not by Init.
func (s *Store) Init(taskID string) error {
	ctx, err := s.LoadContext(taskID)
	if err == nil {
		_ = ctx
		return nil
	}
	newCtx := Context{TaskID: taskID, Metadata: map[string]string{}, UpdatedAt: time.Now().UTC()}
	return s.saveContext(newCtx)
}

func (s *Store) saveContext(ctx Context) error {
	data, err := json.Marshal(ctx)
	if err != nil {
		return err
	}
	return s.backend.Set(s.artifactKey(ctx.TaskID, "context.json"), data)
}

// LoadContext returns the task's context blob.
func (s *Store) LoadContext(taskID string) (Context, error) {
	data, err := s.backend.Get(s.artifactKey(taskID, "context.json"))
	if err != nil {
		return Context{}, err
	}
	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return Context{}, err
	}
	return ctx, nil
}

// UpdatePlan overwrites task_plan.md with content.
func (s *Store) UpdatePlan(taskID, content string) error {
	return s.backend.Set(s.artifactKey(taskID, "task_plan.md"), []byte(content))
}

// LoadPlan returns the current task_plan.md, or "" if never set.
func (s *Store) LoadPlan(taskID string) (string, error) {
	return s.loadTextOrEmpty(taskID, "task_plan.md")
}

// AddNote appends a timestamped line to notes.md.
func (s *Store) AddNote(taskID, note string) error {
	return s.appendLine(taskID, "notes.md", note)
}

// SetDeliverable overwrites deliverable.md with content.
func (s *Store) SetDeliverable(taskID, content string) error {
	return s.backend.Set(s.artifactKey(taskID, "deliverable.md"), []byte(content))
}

// LoadDeliverable returns the current deliverable.md, or "" if never set.
func (s *Store) LoadDeliverable(taskID string) (string, error) {
	return s.loadTextOrEmpty(taskID, "deliverable.md")
}

// AddError appends a new unresolved ErrorEntry to the task's errors.json
// index and returns it.
func (s *Store) AddError(taskID, message string) (ErrorEntry, error) {
	entries, err := s.loadErrors(taskID)
	if err != nil {
		return ErrorEntry{}, err
	}
	entry := ErrorEntry{ID: fmt.Sprintf("err-%d", len(entries)+1), Message: message, RecordedAt: time.Now().UTC()}
	entries = append(entries, entry)
	if err := s.saveErrors(taskID, entries); err != nil {
		return ErrorEntry{}, err
	}
	return entry, nil
}

// ResolveError marks the named error entry resolved.
func (s *Store) ResolveError(taskID, errorID string) error {
	entries, err := s.loadErrors(taskID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	found := false
	for i := range entries {
		if entries[i].ID == errorID {
			entries[i].ResolvedAt = &now
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("planning: unknown error id %q", errorID)
	}
	return s.saveErrors(taskID, entries)
}

func (s *Store) loadErrors(taskID string) ([]ErrorEntry, error) {
	data, err := s.backend.Get(s.artifactKey(taskID, "errors.json"))
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	var entries []ErrorEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) saveErrors(taskID string, entries []ErrorEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.backend.Set(s.artifactKey(taskID, "errors.json"), data)
}

// GetContextMarkdown renders the plan, notes, open errors, and
// deliverable into one markdown document suitable for priming a new
// agent working on taskID.
func (s *Store) GetContextMarkdown(taskID string) (string, error) {
	plan, err := s.LoadPlan(taskID)
	if err != nil {
		return "", err
	}
	notes, err := s.loadTextOrEmpty(taskID, "notes.md")
	if err != nil {
		return "", err
	}
	errors, err := s.loadErrors(taskID)
	if err != nil {
		return "", err
	}
	deliverable, err := s.LoadDeliverable(taskID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Task %s\n\n## Plan\n\n%s\n\n## Notes\n\n%s\n", taskID, orNone(plan), orNone(notes))
	b.WriteString("\n## Errors\n\n")
	if len(errors) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range errors {
		status := "open"
		if e.ResolvedAt != nil {
			status = "resolved"
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", status, e.ID, e.Message)
	}
	fmt.Fprintf(&b, "\n## Deliverable\n\n%s\n", orNone(deliverable))
	return b.String(), nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func (s *Store) loadTextOrEmpty(taskID, artifact string) (string, error) {
	data, err := s.backend.Get(s.artifactKey(taskID, artifact))
	if err != nil {
		if err == storage.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (s *Store) appendLine(taskID, artifact, line string) error {
	existing, err := s.loadTextOrEmpty(taskID, artifact)
	if err != nil {
		return err
	}
	stamped := fmt.Sprintf("[%s] %s\n", time.Now().UTC().Format(time.RFC3339), line)
	return s.backend.Set(s.artifactKey(taskID, artifact), []byte(existing+stamped))
}

// current-task pointer, per agent.

func (s *Store) currentTaskKey(agent string) string {
	return fmt.Sprintf("rooms:%s:planning:current_task:%s", s.room, agent)
}

// SetCurrentTask records taskID as agent's active task.
func (s *Store) SetCurrentTask(agent, taskID string) error {
	return s.backend.Set(s.currentTaskKey(agent), []byte(taskID))
}

// GetCurrentTask returns agent's active task id, or "" if none set.
func (s *Store) GetCurrentTask(agent string) (string, error) {
	data, err := s.backend.Get(s.currentTaskKey(agent))
	if err != nil {
		if err == storage.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// ClearCurrentTask removes agent's active task pointer.
func (s *Store) ClearCurrentTask(agent string) error {
	return s.backend.Delete(s.currentTaskKey(agent))
}

// ResolveTaskID returns explicitTaskID if non-empty, else falls back to
// agent's current task pointer.
func (s *Store) ResolveTaskID(agent, explicitTaskID string) (string, error) {
	if explicitTaskID != "" {
		return explicitTaskID, nil
	}
	return s.GetCurrentTask(agent)
}
