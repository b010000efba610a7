package room

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masc-mcp/masc-mcp/internal/storage"
)

// CreateTask inserts a new Todo task and returns it.
func (r *Room) CreateTask(title, description string, priority int, files []string) (Task, error) {
	t := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      TaskTodo,
		Files:       files,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.putTask(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *Room) putTask(t Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.backend.Set(r.key("tasks", t.ID), data)
}

// GetTask returns a task by id.
func (r *Room) GetTask(id string) (Task, error) {
	data, err := r.backend.Get(r.key("tasks", id))
	if err != nil {
		if err == storage.ErrNotFound {
			return Task{}, ErrTaskNotFound
		}
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ListTasks enumerates all tasks in the room, optionally filtered by
// status. An empty filter returns every task.
func (r *Room) ListTasks(filter TaskStatus) ([]Task, error) {
	keys, err := r.backend.List(r.key("tasks") + ":")
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(keys))
	for _, k := range keys {
		data, err := r.backend.Get(k)
		if err != nil {
			continue
		}
		var t Task
		if err := json.Unmarshal(data, &t); err != nil {
			continue
		}
		if filter == "" || t.Status == filter {
			out = append(out, t)
		}
	}
	return out, nil
}

// ClaimTask transitions Todo -> InProgress(agent). Lost races against a
// concurrent claimant (the optimistic read-then-write below observing a
// stale Todo snapshot) are retried once by re-reading the task before
// failing with ErrTaskNotClaimable.
func (r *Room) ClaimTask(id, agent string) (Task, error) {
	t, err := r.claimOnce(id, agent)
	if err == errClaimRace {
		t, err = r.claimOnce(id, agent)
	}
	if err == errClaimRace {
		return Task{}, ErrTaskNotClaimable
	}
	if err != nil {
		return Task{}, err
	}
	r.logger.Info("task claimed", zap.String("room", r.name), zap.String("task", id), zap.String("agent", agent))
	return t, nil
}

var errClaimRace = fmt.Errorf("room: lost claim race")

func (r *Room) claimOnce(id, agent string) (Task, error) {
	t, err := r.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	if t.Status != TaskTodo {
		return Task{}, errClaimRace
	}
	t.Status = TaskInProgress
	t.Owner = agent
	if err := r.putTask(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// CompleteTask transitions InProgress(agent) -> Completed. Only the
// claiming agent may complete the task.
func (r *Room) CompleteTask(id, agent string) (Task, error) {
	t, err := r.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	if t.Status != TaskInProgress {
		return Task{}, ErrTaskNotClaimable
	}
	if t.Owner != agent {
		return Task{}, ErrNotTaskOwner
	}
	t.Status = TaskCompleted
	if err := r.putTask(t); err != nil {
		return Task{}, err
	}
	r.logger.Info("task completed", zap.String("room", r.name), zap.String("task", id), zap.String("agent", agent))
	return t, nil
}

// CancelTask transitions InProgress(agent) -> Cancelled(reason). Only the
// claiming agent may cancel the task.
func (r *Room) CancelTask(id, agent, reason string) (Task, error) {
	t, err := r.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	if t.Status != TaskInProgress {
		return Task{}, ErrTaskNotClaimable
	}
	if t.Owner != agent {
		return Task{}, ErrNotTaskOwner
	}
	t.Status = TaskCancelled
	t.CancelledReason = reason
	if err := r.putTask(t); err != nil {
		return Task{}, err
	}
	r.logger.Info("task cancelled", zap.String("room", r.name), zap.String("task", id), zap.String("agent", agent), zap.String("reason", reason))
	return t, nil
}
