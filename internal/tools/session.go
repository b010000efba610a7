package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

var errSessionNotFound = errors.New("tools: unknown session id")

func registerSessionTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "session_create",
		Description: "Create a new MCP session for a connecting agent.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"agent_name"},
			"properties": map[string]any{
				"agent_name": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agentName, err := getString(args, "agent_name")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		id, _, err := deps.Sessions.Create(agentName)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]string{"session_id": id})
	})

	registry.Register(mcp.Tool{
		Name:        "session_status",
		Description: "Report a session's queue depth and overflow flag.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"session_id"},
			"properties": map[string]any{
				"session_id": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		sessionID, err := getString(args, "session_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		sess, ok := deps.Sessions.Get(sessionID)
		if !ok {
			return mcp.CallToolResult{}, errSessionNotFound
		}
		return mcp.TextResult(map[string]any{
			"agent_name": sess.AgentName,
			"queue_len":  sess.QueueLen(),
			"overflowed": sess.Overflowed,
		})
	})

	registry.Register(mcp.Tool{
		Name:        "session_close",
		Description: "Close and discard a session.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"session_id"},
			"properties": map[string]any{
				"session_id": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		sessionID, err := getString(args, "session_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		deps.Sessions.Remove(sessionID)
		return mcp.TextResult(map[string]bool{"ok": true})
	})
}
