package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
	"github.com/masc-mcp/masc-mcp/internal/room"
)

func registerTaskTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "task_create",
		Description: "Create a new Todo task.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"title"},
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"priority":    map[string]any{"type": "integer"},
				"files":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		title, err := getString(args, "title")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		task, err := deps.Room.CreateTask(title, getStringOpt(args, "description", ""), getIntOpt(args, "priority", 0), getStringList(args, "files"))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(task)
	})

	registry.Register(mcp.Tool{
		Name:        "task_list",
		Description: "List tasks, optionally filtered by status (todo, in_progress, completed, cancelled).",
		InputSchema: rawSchema(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		tasks, err := deps.Room.ListTasks(room.TaskStatus(getStringOpt(args, "status", "")))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"tasks": tasks})
	})

	registry.Register(mcp.Tool{
		Name:        "task_claim",
		Description: "Claim a Todo task, transitioning it to in_progress.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "agent"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"agent":   map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		taskID, err := getString(args, "task_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agent, err := getString(args, "agent")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		task, err := deps.Room.ClaimTask(taskID, agent)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(task)
	})

	registry.Register(mcp.Tool{
		Name:        "task_complete",
		Description: "Complete a task this agent owns.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "agent"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"agent":   map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		taskID, err := getString(args, "task_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agent, err := getString(args, "agent")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		task, err := deps.Room.CompleteTask(taskID, agent)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(task)
	})

	registry.Register(mcp.Tool{
		Name:        "task_cancel",
		Description: "Cancel a task this agent owns, recording a reason.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "agent", "reason"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"agent":   map[string]any{"type": "string"},
				"reason":  map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		taskID, err := getString(args, "task_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agent, err := getString(args, "agent")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		reason, err := getString(args, "reason")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		task, err := deps.Room.CancelTask(taskID, agent, reason)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(task)
	})
}
