package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerRoomTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "room_broadcast",
		Description: "Post a message to the room's shared log. @-mentions are parsed and routed.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"from_agent", "content"},
			"properties": map[string]any{
				"from_agent": map[string]any{"type": "string"},
				"content":    map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		from, err := getString(args, "from_agent")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		content, err := getString(args, "content")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		msg, err := deps.Room.Broadcast(from, content)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(msg)
	})

	registry.Register(mcp.Tool{
		Name:        "room_messages",
		Description: "List messages with seq greater than since_seq.",
		InputSchema: rawSchema(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"since_seq": map[string]any{"type": "integer"},
				"limit":     map[string]any{"type": "integer"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		since := int64(getIntOpt(args, "since_seq", 0))
		limit := getIntOpt(args, "limit", 0)
		msgs, err := deps.Room.ListMessages(since, limit)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"messages": msgs})
	})

	registry.Register(mcp.Tool{
		Name:        "room_read_state",
		Description: "Return a point-in-time snapshot of the room's agents, locks, messages, tasks, and pause flag.",
		InputSchema: rawSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		state, err := deps.Room.ReadState()
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(state)
	})

	registry.Register(mcp.Tool{
		Name:        "room_status",
		Description: "Return the protocol version and coarse room counters.",
		InputSchema: rawSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		status, err := deps.Room.Status()
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(status)
	})
}
