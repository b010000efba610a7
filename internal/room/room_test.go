package room_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/room"
	"github.com/masc-mcp/masc-mcp/internal/storage"
)

func newTestRoom(t *testing.T) *room.Room {
	t.Helper()
	return room.New("test-room", storage.NewMemory(), nil)
}

func TestRegisterAgentIsIdempotent(t *testing.T) {
	r := newTestRoom(t)
	a1, err := r.RegisterAgent("researcher-curious-fox", []string{"read"})
	require.NoError(t, err)
	require.Equal(t, room.AgentActive, a1.Status)

	a2, err := r.RegisterAgent("researcher-curious-fox", []string{"read"})
	require.NoError(t, err)
	require.Equal(t, a1.RegisteredAt, a2.RegisteredAt)
	require.True(t, !a2.LastSeen.Before(a1.LastSeen))
}

func TestRegisterAgentRejectsInvalidName(t *testing.T) {
	r := newTestRoom(t)
	_, err := r.RegisterAgent("", nil)
	require.ErrorIs(t, err, room.ErrInvalidAgentName)

	_, err = r.RegisterAgent("../escape", nil)
	require.ErrorIs(t, err, room.ErrInvalidAgentName)
}

func TestGetAgentNotFound(t *testing.T) {
	r := newTestRoom(t)
	_, err := r.GetAgent("nobody")
	require.ErrorIs(t, err, room.ErrAgentNotFound)
}

func TestAcquireLockExclusivity(t *testing.T) {
	r := newTestRoom(t)

	lock, ok, err := r.AcquireLock("main.go", "agent-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "agent-a", lock.Owner)

	_, ok, err = r.AcquireLock("main.go", "agent-b")
	require.NoError(t, err)
	require.False(t, ok)

	// Re-acquire by the same owner is a no-op success.
	again, ok, err := r.AcquireLock("main.go", "agent-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, lock.AcquiredAt, again.AcquiredAt)

	require.NoError(t, r.ReleaseLock("main.go", "agent-b")) // no-op, not the owner
	locks, err := r.ListLocks()
	require.NoError(t, err)
	require.Len(t, locks, 1)

	require.NoError(t, r.ReleaseLock("main.go", "agent-a"))
	locks, err = r.ListLocks()
	require.NoError(t, err)
	require.Empty(t, locks)

	_, ok, err = r.AcquireLock("main.go", "agent-b")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBroadcastAllocatesDenseSeqAndParsesMention(t *testing.T) {
	r := newTestRoom(t)

	m1, err := r.Broadcast("agent-a", "hello @researcher-curious-fox are you there?")
	require.NoError(t, err)
	require.Equal(t, int64(1), m1.Seq)
	require.NotNil(t, m1.Mention)
	require.Equal(t, "researcher-curious-fox", *m1.Mention)

	m2, err := r.Broadcast("agent-b", "no mention here")
	require.NoError(t, err)
	require.Equal(t, int64(2), m2.Seq)
	require.Nil(t, m2.Mention)

	got, err := r.GetMessage(1)
	require.NoError(t, err)
	require.Equal(t, m1, got)

	_, err = r.GetMessage(99)
	require.ErrorIs(t, err, room.ErrMessageNotFound)

	msgs, err := r.ListMessages(0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, int64(1), msgs[0].Seq)
	require.Equal(t, int64(2), msgs[1].Seq)

	msgs, err = r.ListMessages(1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, int64(2), msgs[0].Seq)
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestRoom(t)

	task, err := r.CreateTask("fix bug", "details", 1, []string{"main.go"})
	require.NoError(t, err)
	require.Equal(t, room.TaskTodo, task.Status)

	claimed, err := r.ClaimTask(task.ID, "agent-a")
	require.NoError(t, err)
	require.Equal(t, room.TaskInProgress, claimed.Status)
	require.Equal(t, "agent-a", claimed.Owner)

	_, err = r.ClaimTask(task.ID, "agent-b")
	require.ErrorIs(t, err, room.ErrTaskNotClaimable)

	_, err = r.CompleteTask(task.ID, "agent-b")
	require.ErrorIs(t, err, room.ErrNotTaskOwner)

	done, err := r.CompleteTask(task.ID, "agent-a")
	require.NoError(t, err)
	require.Equal(t, room.TaskCompleted, done.Status)

	_, err = r.CancelTask(task.ID, "agent-a", "too late")
	require.ErrorIs(t, err, room.ErrTaskNotClaimable)
}

func TestCancelTask(t *testing.T) {
	r := newTestRoom(t)
	task, err := r.CreateTask("flaky test", "", 0, nil)
	require.NoError(t, err)
	_, err = r.ClaimTask(task.ID, "agent-a")
	require.NoError(t, err)

	cancelled, err := r.CancelTask(task.ID, "agent-a", "blocked upstream")
	require.NoError(t, err)
	require.Equal(t, room.TaskCancelled, cancelled.Status)
	require.Equal(t, "blocked upstream", cancelled.CancelledReason)
}

func TestPauseResumeIsIdempotent(t *testing.T) {
	r := newTestRoom(t)

	p, err := r.Pause("admin", "incident")
	require.NoError(t, err)
	require.True(t, p.Paused)

	// Pausing an already-paused room is a documented no-op: the original
	// Since/Reason/Actor are preserved, not overwritten.
	again, err := r.Pause("someone-else", "different reason")
	require.NoError(t, err)
	require.Equal(t, p.Since, again.Since)
	require.Equal(t, "incident", again.Reason)

	resumed, err := r.Resume("admin")
	require.NoError(t, err)
	require.False(t, resumed.Paused)

	resumedAgain, err := r.Resume("admin")
	require.NoError(t, err)
	require.False(t, resumedAgain.Paused)
}

func TestReadStateAndStatus(t *testing.T) {
	r := newTestRoom(t)
	_, err := r.RegisterAgent("agent-a", nil)
	require.NoError(t, err)
	_, err = r.Broadcast("agent-a", "hi")
	require.NoError(t, err)
	_, err = r.CreateTask("t1", "", 0, nil)
	require.NoError(t, err)
	_, _, err = r.AcquireLock("f.go", "agent-a")
	require.NoError(t, err)

	state, err := r.ReadState()
	require.NoError(t, err)
	require.Equal(t, []string{"agent-a"}, state.ActiveAgents)
	require.Equal(t, 1, state.MessageCount)
	require.Equal(t, 1, state.TaskCount)
	require.Equal(t, 1, state.LockCount)
	require.False(t, state.Paused)

	status, err := r.Status()
	require.NoError(t, err)
	require.Equal(t, room.ProtocolVersion, status.ProtocolVersion)
	require.Equal(t, 1, status.AgentCount)

	health := r.HealthCheck()
	require.True(t, health.Healthy)
}
