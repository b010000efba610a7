package handover_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/handover"
	"github.com/masc-mcp/masc-mcp/internal/storage"
)

func newTestStore(t *testing.T) *handover.Store {
	t.Helper()
	return handover.NewStore("test-room", storage.NewMemory())
}

func TestCreateLoadList(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Create("agent-a", "", "task-1", handover.TriggerContextExhaustion, "did half the refactor", []string{"finish renaming"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := s.Load(rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Summary, got.Summary)

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetPendingFiltersClaimedAndAddressee(t *testing.T) {
	s := newTestStore(t)
	open, err := s.Create("agent-a", "", "", handover.TriggerManual, "open to anyone", nil)
	require.NoError(t, err)
	addressed, err := s.Create("agent-a", "agent-b", "", handover.TriggerManual, "just for b", nil)
	require.NoError(t, err)

	pendingForC, err := s.GetPending("agent-c")
	require.NoError(t, err)
	require.Len(t, pendingForC, 1)
	require.Equal(t, open.ID, pendingForC[0].ID)

	pendingForB, err := s.GetPending("agent-b")
	require.NoError(t, err)
	require.Len(t, pendingForB, 2)

	_, err = s.Claim(addressed.ID, "agent-b")
	require.NoError(t, err)

	pendingForB, err = s.GetPending("agent-b")
	require.NoError(t, err)
	require.Len(t, pendingForB, 1)
}

func TestClaimRejectsDoubleClaimAndWrongAddressee(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Create("agent-a", "agent-b", "", handover.TriggerError, "crashed mid-task", nil)
	require.NoError(t, err)

	_, err = s.Claim(rec.ID, "agent-c")
	require.ErrorIs(t, err, handover.ErrAlreadyClaimed)

	_, err = s.Claim(rec.ID, "agent-b")
	require.NoError(t, err)

	_, err = s.Claim(rec.ID, "agent-b")
	require.ErrorIs(t, err, handover.ErrAlreadyClaimed)
}

func TestFormatAsMarkdownAndPrompt(t *testing.T) {
	rec, err := handover.NewStore("r", storage.NewMemory()).Create("agent-a", "", "task-1", handover.TriggerContextExhaustion, "summary text", []string{"thread 1"})
	require.NoError(t, err)

	md := handover.FormatAsMarkdown(rec)
	require.Contains(t, md, "agent-a")
	require.Contains(t, md, "summary text")
	require.Contains(t, md, "thread 1")

	prompt := handover.BuildSuccessorPrompt(rec)
	require.Contains(t, prompt, "picking up work")
	require.Contains(t, prompt, "summary text")
}
