package tools

import (
	"context"
	"encoding/json"

	"github.com/masc-mcp/masc-mcp/internal/handover"
	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerHandoverTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "handover_create",
		Description: "Record a context-exhaustion (or manual) hand-off for another agent to pick up.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"from_agent", "summary"},
			"properties": map[string]any{
				"from_agent":   map[string]any{"type": "string"},
				"to_agent":     map[string]any{"type": "string"},
				"task_id":      map[string]any{"type": "string"},
				"reason":       map[string]any{"type": "string"},
				"summary":      map[string]any{"type": "string"},
				"open_threads": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
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
		summary, err := getString(args, "summary")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		reason := parseTriggerReason(getStringOpt(args, "reason", "manual"))
		rec, err := deps.Handover.Create(from, getStringOpt(args, "to_agent", ""), getStringOpt(args, "task_id", ""), reason, summary, getStringList(args, "open_threads"))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(rec)
	})

	registry.Register(mcp.Tool{
		Name:        "handover_pending",
		Description: "List unclaimed handovers visible to an agent.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"agent"},
			"properties": map[string]any{
				"agent": map[string]any{"type": "string"},
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
		pending, err := deps.Handover.GetPending(agent)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"pending": pending})
	})

	registry.Register(mcp.Tool{
		Name:        "handover_claim",
		Description: "Claim a pending handover, returning the successor prompt to resume from.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"id", "claimant"},
			"properties": map[string]any{
				"id":       map[string]any{"type": "string"},
				"claimant": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		id, err := getString(args, "id")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		claimant, err := getString(args, "claimant")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		rec, err := deps.Handover.Claim(id, claimant)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"record": rec, "prompt": handover.BuildSuccessorPrompt(rec)})
	})
}

func parseTriggerReason(s string) handover.TriggerReason {
	switch s {
	case "context_exhaustion":
		return handover.TriggerContextExhaustion
	case "error":
		return handover.TriggerError
	default:
		return handover.TriggerManual
	}
}
