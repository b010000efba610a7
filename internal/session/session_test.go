package session_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/session"
)

func TestSessionEnqueueOverflowsAndFlushes(t *testing.T) {
	s := session.NewSession("agent-a")
	for i := 0; i < 300; i++ {
		s.Enqueue(i)
	}
	require.True(t, s.Overflowed)
	require.LessOrEqual(t, s.QueueLen(), 256)

	flushed := s.Flush()
	require.NotEmpty(t, flushed)
	require.Equal(t, 0, s.QueueLen())
	require.False(t, s.Overflowed)
}

func TestMcpSessionStoreLifecycle(t *testing.T) {
	store := session.NewMcpSessionStore()
	id, sess, err := store.Create("agent-a")
	require.NoError(t, err)
	require.Contains(t, id, "mcp_")
	require.Equal(t, "agent-a", sess.AgentName)
	require.Equal(t, 1, store.Count())

	got, ok := store.Get(id)
	require.True(t, ok)
	require.Same(t, sess, got)

	store.Remove(id)
	_, ok = store.Get(id)
	require.False(t, ok)
	require.Equal(t, 0, store.Count())
}

func TestSessionIDFromHeadersPrefersCanonical(t *testing.T) {
	h := http.Header{}
	h.Set(session.HeaderXMcpSessionID, "legacy-id")
	require.Equal(t, "legacy-id", session.SessionIDFromHeaders(h))

	h.Set(session.HeaderMcpSessionID, "canonical-id")
	require.Equal(t, "canonical-id", session.SessionIDFromHeaders(h))
}
