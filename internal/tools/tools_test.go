package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/auth"
	"github.com/masc-mcp/masc-mcp/internal/handover"
	"github.com/masc-mcp/masc-mcp/internal/mcp"
	"github.com/masc-mcp/masc-mcp/internal/planning"
	"github.com/masc-mcp/masc-mcp/internal/ratelimit"
	"github.com/masc-mcp/masc-mcp/internal/room"
	"github.com/masc-mcp/masc-mcp/internal/session"
	"github.com/masc-mcp/masc-mcp/internal/storage"
	"github.com/masc-mcp/masc-mcp/internal/tools"
)

func newTestDeps() (tools.Deps, *mcp.Registry) {
	backend := storage.NewMemory()
	r := room.New("test-room", backend, nil)
	deps := tools.Deps{
		Room:      r,
		Auth:      auth.NewManager(backend),
		RateLimit: ratelimit.NewRegistry(nil),
		Sessions:  session.NewMcpSessionStore(),
		Handover:  handover.NewStore("test-room", backend),
		Planning:  planning.NewStore("test-room", backend),
	}
	registry := mcp.NewRegistry()
	tools.RegisterAll(registry, deps)
	return deps, registry
}

func call(t *testing.T, registry *mcp.Registry, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)
	result, ok := registry.Call(context.Background(), name, data)
	require.True(t, ok, "tool %q must be registered", name)
	return result
}

func TestRegisterAllWiresEveryNamespace(t *testing.T) {
	_, registry := newTestDeps()
	names := map[string]bool{}
	for _, tool := range registry.List() {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"agent_register", "lock_acquire", "task_create", "room_broadcast",
		"control_pause", "auth_create_token", "session_create",
		"planning_init", "handover_create", "cache_get",
	} {
		require.True(t, names[want], "expected tool %q to be registered", want)
	}
}

func TestAgentAndTaskFlowThroughTools(t *testing.T) {
	_, registry := newTestDeps()

	result := call(t, registry, "agent_register", map[string]any{"name": "agent-a"})
	require.False(t, result.IsError)

	result = call(t, registry, "task_create", map[string]any{"title": "fix bug"})
	require.False(t, result.IsError)
	var task map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &task))
	taskID := task["id"].(string)

	result = call(t, registry, "task_claim", map[string]any{"task_id": taskID, "agent": "agent-a"})
	require.False(t, result.IsError)

	result = call(t, registry, "task_complete", map[string]any{"task_id": taskID, "agent": "agent-a"})
	require.False(t, result.IsError)
}

func TestLockToolsViaRegistry(t *testing.T) {
	_, registry := newTestDeps()
	result := call(t, registry, "lock_acquire", map[string]any{"resource": "main.go", "owner": "agent-a"})
	require.False(t, result.IsError)

	result = call(t, registry, "lock_acquire", map[string]any{"resource": "main.go", "owner": "agent-b"})
	require.False(t, result.IsError)
	require.Contains(t, result.Content[0].Text, `"acquired":false`)
}

func TestAuthToolsEndToEnd(t *testing.T) {
	_, registry := newTestDeps()
	result := call(t, registry, "auth_create_token", map[string]any{"agent_name": "agent-a", "role": "worker"})
	require.False(t, result.IsError)
	var tokenResp map[string]string
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &tokenResp))

	result = call(t, registry, "auth_check_permission", map[string]any{"token": tokenResp["token"], "capability": "broadcast"})
	require.False(t, result.IsError)

	result = call(t, registry, "auth_check_permission", map[string]any{"token": tokenResp["token"], "capability": "reset"})
	require.True(t, result.IsError)
}

func TestStubToolsReportUnsupported(t *testing.T) {
	_, registry := newTestDeps()
	result := call(t, registry, "swarm_spawn", map[string]any{})
	require.False(t, result.IsError)
	require.Contains(t, result.Content[0].Text, `"supported":false`)
}

func TestMissingRequiredArgumentErrors(t *testing.T) {
	_, registry := newTestDeps()
	result := call(t, registry, "agent_register", map[string]any{})
	require.True(t, result.IsError)
}
