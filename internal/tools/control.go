package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerControlTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "control_pause",
		Description: "Pause the room. A no-op if already paused.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"actor"},
			"properties": map[string]any{
				"actor":  map[string]any{"type": "string"},
				"reason": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		actor, err := getString(args, "actor")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		pause, err := deps.Room.Pause(actor, getStringOpt(args, "reason", ""))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(pause)
	})

	registry.Register(mcp.Tool{
		Name:        "control_resume",
		Description: "Resume the room. A no-op if not paused.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"actor"},
			"properties": map[string]any{
				"actor": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		actor, err := getString(args, "actor")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		pause, err := deps.Room.Resume(actor)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(pause)
	})
}
