package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerPlanningTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "planning_init",
		Description: "Initialize the planning artifacts for a task.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
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
		if err := deps.Planning.Init(taskID); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_update_plan",
		Description: "Overwrite a task's plan document.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "content"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
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
		content, err := getString(args, "content")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Planning.UpdatePlan(taskID, content); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_add_note",
		Description: "Append a timestamped note to a task's notes log.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "note"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"note":    map[string]any{"type": "string"},
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
		note, err := getString(args, "note")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Planning.AddNote(taskID, note); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_set_deliverable",
		Description: "Overwrite a task's deliverable summary.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "content"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
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
		content, err := getString(args, "content")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Planning.SetDeliverable(taskID, content); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_add_error",
		Description: "Record a new error entry against a task.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "message"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"message": map[string]any{"type": "string"},
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
		message, err := getString(args, "message")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		entry, err := deps.Planning.AddError(taskID, message)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(entry)
	})

	registry.Register(mcp.Tool{
		Name:        "planning_resolve_error",
		Description: "Mark a task's error entry resolved.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id", "error_id"},
			"properties": map[string]any{
				"task_id":  map[string]any{"type": "string"},
				"error_id": map[string]any{"type": "string"},
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
		errorID, err := getString(args, "error_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Planning.ResolveError(taskID, errorID); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_get_context",
		Description: "Render a task's plan, notes, errors, and deliverable as one markdown document.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"task_id"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
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
		md, err := deps.Planning.GetContextMarkdown(taskID)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]string{"markdown": md})
	})

	registry.Register(mcp.Tool{
		Name:        "planning_set_current_task",
		Description: "Set an agent's current-task pointer.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"agent", "task_id"},
			"properties": map[string]any{
				"agent":   map[string]any{"type": "string"},
				"task_id": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		agent, err := getString(args, "agent")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		taskID, err := getString(args, "task_id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Planning.SetCurrentTask(agent, taskID); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})
}
