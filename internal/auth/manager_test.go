package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/auth"
	"github.com/masc-mcp/masc-mcp/internal/storage"
)

func TestCreateAndVerifyToken(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())

	token, err := m.CreateToken("agent-a", auth.RoleWorker, 0)
	require.NoError(t, err)
	require.Len(t, token, 64)

	cred, err := m.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "agent-a", cred.AgentName)
	require.Equal(t, auth.RoleWorker, cred.Role)
}

func TestVerifyTokenRejectsUnknown(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())
	_, err := m.VerifyToken("not-a-real-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())
	token, err := m.CreateToken("agent-a", auth.RoleReader, time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = m.VerifyToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCheckPermissionMatrix(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())

	reader, err := m.CreateToken("reader-agent", auth.RoleReader, 0)
	require.NoError(t, err)
	worker, err := m.CreateToken("worker-agent", auth.RoleWorker, 0)
	require.NoError(t, err)
	admin, err := m.CreateToken("admin-agent", auth.RoleAdmin, 0)
	require.NoError(t, err)

	_, err = m.CheckPermission(reader, auth.CapReadState)
	require.NoError(t, err)
	_, err = m.CheckPermission(reader, auth.CapClaimTask)
	require.ErrorIs(t, err, auth.ErrPermissionDenied)

	_, err = m.CheckPermission(worker, auth.CapBroadcast)
	require.NoError(t, err)
	_, err = m.CheckPermission(worker, auth.CapReset)
	require.ErrorIs(t, err, auth.ErrPermissionDenied)

	_, err = m.CheckPermission(admin, auth.CapReset)
	require.NoError(t, err)
}

func TestRevokeToken(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())
	token, err := m.CreateToken("agent-a", auth.RoleAdmin, 0)
	require.NoError(t, err)
	require.NoError(t, m.RevokeToken(token))
	_, err = m.VerifyToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestEnableDisableAuth(t *testing.T) {
	m := auth.NewManager(storage.NewMemory())
	enabled, err := m.IsEnabled()
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, m.EnableAuth())
	enabled, err = m.IsEnabled()
	require.NoError(t, err)
	require.True(t, enabled)

	require.NoError(t, m.DisableAuth())
	enabled, err = m.IsEnabled()
	require.NoError(t, err)
	require.False(t, enabled)
}
