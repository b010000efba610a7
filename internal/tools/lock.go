package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerLockTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "lock_acquire",
		Description: "Acquire an exclusive lock on a resource name.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"resource", "owner"},
			"properties": map[string]any{
				"resource": map[string]any{"type": "string"},
				"owner":    map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		resource, err := getString(args, "resource")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		owner, err := getString(args, "owner")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		lock, ok, err := deps.Room.AcquireLock(resource, owner)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if !ok {
			return mcp.TextResult(map[string]any{"acquired": false})
		}
		return mcp.TextResult(map[string]any{"acquired": true, "lock": lock})
	})

	registry.Register(mcp.Tool{
		Name:        "lock_release",
		Description: "Release a lock this agent owns; a no-op otherwise.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"resource", "owner"},
			"properties": map[string]any{
				"resource": map[string]any{"type": "string"},
				"owner":    map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		resource, err := getString(args, "resource")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		owner, err := getString(args, "owner")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Room.ReleaseLock(resource, owner); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "lock_list",
		Description: "List every currently held lock in the room.",
		InputSchema: rawSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		locks, err := deps.Room.ListLocks()
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"locks": locks})
	})
}
