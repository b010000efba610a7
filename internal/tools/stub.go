package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

// registerStubTools registers tool names from the wider agent-swarm
// ecosystem (cost accounting, worktree management, cache, swarm spawn,
// "walph" style workflow helpers) that this deployment does not implement.
// They are registered so a client's tools/list reflects the full surface
// and a call gets a clear, typed "not supported" result instead of a bare
// method-not-found, without fabricating behavior this server does not
// actually provide.
func registerStubTools(registry *mcp.Registry, deps Deps) {
	stub := func(name, description, reason string) {
		registry.Register(mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: rawSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
		}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
			return mcp.TextResult(map[string]any{"supported": false, "reason": reason})
		})
	}

	stub("cost_report", "Report accumulated token/dollar cost for the room.", "cost accounting is not wired to a billing backend in this deployment")
	stub("walph_suggest", "Suggest a next workflow step via the walph planner.", "walph planner integration is not included in this deployment")
	stub("cache_get", "Fetch a cached value by key.", "a dedicated cache tier is not included in this deployment; use room_read_state for shared state")
	stub("worktree_create", "Create an isolated git worktree for a task.", "worktree orchestration is not included in this deployment")
	stub("swarm_spawn", "Spawn a new agent instance of a given type.", "agent process spawning is outside this server's scope; pair with an external orchestrator")
}
