// Package room implements the shared workspace: agent presence, file
// locks, the message log with @mention routing, the task state machine,
// and the process-wide pause flag. All state is persisted through a
// storage.Backend; in-memory caches are derivable and may be rebuilt from
// disk at startup.
package room

import "errors"

var (
	// ErrInvalidAgentName is returned when a name is empty, contains a
	// path separator, starts with a colon, or contains a ".." segment.
	ErrInvalidAgentName = errors.New("room: invalid agent name")

	// ErrAgentNotFound is returned when an operation references an agent
	// that has not been registered.
	ErrAgentNotFound = errors.New("room: agent not found")

	// ErrLockHeld describes a resource held by a different owner.
	// AcquireLock reports that case through its false result and does not
	// return this error.
	ErrLockHeld = errors.New("room: lock held by another owner")

	// ErrTaskNotFound is returned when an operation references an unknown
	// task id.
	ErrTaskNotFound = errors.New("room: task not found")

	// ErrTaskNotClaimable is returned when Claim is attempted on a task
	// that is not in the Todo state.
	ErrTaskNotClaimable = errors.New("room: task not claimable")

	// ErrNotTaskOwner is returned when an agent other than the claiming
	// agent attempts to complete a task.
	ErrNotTaskOwner = errors.New("room: agent does not own this task")

	// ErrMessageNotFound is returned when a sequence number has no
	// corresponding message.
	ErrMessageNotFound = errors.New("room: message not found")
)
