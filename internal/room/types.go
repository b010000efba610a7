package room

import "time"

// AgentStatus is the presence state of a registered Agent.
type AgentStatus string

const (
	AgentActive   AgentStatus = "active"
	AgentInactive AgentStatus = "inactive"
)

// Agent is a named participant in a room with a set of capabilities.
type Agent struct {
	Name         string      `json:"name"`
	Status       AgentStatus `json:"status"`
	Capabilities []string    `json:"capabilities"`
	RegisteredAt time.Time   `json:"registered_at"`
	LastSeen     time.Time   `json:"last_seen"`
}

// Lock represents exclusive ownership of one resource name.
type Lock struct {
	Resource   string     `json:"resource"`
	Owner      string     `json:"owner"`
	AcquiredAt time.Time  `json:"acquired_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Message is one entry in the room's dense, monotone message log.
type Message struct {
	Seq       int64     `json:"seq"`
	FromAgent string    `json:"from_agent"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Mention   *string   `json:"mention,omitempty"`
}

// TaskStatus is a node in the task state machine: Todo -> InProgress ->
// {Completed, Cancelled}.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Task is a unit of work claimable by exactly one agent at a time.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	Owner       string     `json:"owner,omitempty"`
	Files       []string   `json:"files"`
	CreatedAt   time.Time  `json:"created_at"`
	Worktree    string     `json:"worktree,omitempty"`
	CancelledReason string `json:"cancelled_reason,omitempty"`
}

// Pause is the process-wide "soft stop" flag for a room.
type Pause struct {
	Paused bool       `json:"paused"`
	Reason string     `json:"reason,omitempty"`
	Actor  string     `json:"actor,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
}

// State is the read_state() snapshot of a room.
type State struct {
	ActiveAgents []string `json:"active_agents"`
	Paused       bool     `json:"paused"`
	MessageCount int      `json:"message_count"`
	TaskCount    int      `json:"task_count"`
	LockCount    int      `json:"lock_count"`
}

// Status is the status() protocol-version-plus-counters summary.
type Status struct {
	ProtocolVersion string `json:"protocol_version"`
	AgentCount      int    `json:"agent_count"`
	MessageCount    int    `json:"message_count"`
	TaskCount       int    `json:"task_count"`
	Paused          bool   `json:"paused"`
}
