package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerAgentTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "agent_register",
		Description: "Register this agent's presence in the room.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name":         map[string]any{"type": "string"},
				"capabilities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		name, err := getString(args, "name")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agent, err := deps.Room.RegisterAgent(name, getStringList(args, "capabilities"))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(agent)
	})

	registry.Register(mcp.Tool{
		Name:        "agent_heartbeat",
		Description: "Refresh this agent's last-seen timestamp.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		name, err := getString(args, "name")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Room.Heartbeat(name); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "agent_list",
		Description: "List every agent currently registered in the room.",
		InputSchema: rawSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		names, err := deps.Room.ListAgents()
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"agents": names})
	})

	registry.Register(mcp.Tool{
		Name:        "agent_remove",
		Description: "Remove an agent's presence record from the room.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		name, err := getString(args, "name")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Room.RemoveAgent(name); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})
}
