package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/masc-mcp/masc-mcp/internal/auth"
	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func registerAuthTools(registry *mcp.Registry, deps Deps) {
	registry.Register(mcp.Tool{
		Name:        "auth_create_token",
		Description: "Issue a new credential token for an agent with the given role (reader, worker, admin).",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"agent_name", "role"},
			"properties": map[string]any{
				"agent_name": map[string]any{"type": "string"},
				"role":       map[string]any{"type": "string"},
				"ttl_seconds": map[string]any{"type": "integer"},
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
		roleStr, err := getString(args, "role")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		role, err := auth.ParseRole(roleStr)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		ttl := time.Duration(getIntOpt(args, "ttl_seconds", 0)) * time.Second
		token, err := deps.Auth.CreateToken(agentName, role, ttl)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]string{"token": token})
	})

	registry.Register(mcp.Tool{
		Name:        "auth_check_permission",
		Description: "Verify a token and check it holds the named capability.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"token", "capability"},
			"properties": map[string]any{
				"token":      map[string]any{"type": "string"},
				"capability": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		token, err := getString(args, "token")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		capability, err := getString(args, "capability")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		cred, err := deps.Auth.CheckPermission(token, auth.Capability(capability))
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]any{"allowed": true, "agent_name": cred.AgentName, "role": cred.Role})
	})

	registry.Register(mcp.Tool{
		Name:        "auth_revoke_token",
		Description: "Revoke a previously issued token.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"token"},
			"properties": map[string]any{
				"token": map[string]any{"type": "string"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		token, err := getString(args, "token")
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		if err := deps.Auth.RevokeToken(token); err != nil {
			return mcp.CallToolResult{}, err
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})

	registry.Register(mcp.Tool{
		Name:        "auth_set_enabled",
		Description: "Enable or disable auth enforcement for the room.",
		InputSchema: rawSchema(map[string]any{
			"type":     "object",
			"required": []string{"enabled"},
			"properties": map[string]any{
				"enabled": map[string]any{"type": "boolean"},
			},
		}),
	}, func(ctx context.Context, raw json.RawMessage) (mcp.CallToolResult, error) {
		args, err := decodeArgs(raw)
		if err != nil {
			return mcp.CallToolResult{}, err
		}
		var opErr error
		if getBool(args, "enabled", false) {
			opErr = deps.Auth.EnableAuth()
		} else {
			opErr = deps.Auth.DisableAuth()
		}
		if opErr != nil {
			return mcp.CallToolResult{}, opErr
		}
		return mcp.TextResult(map[string]bool{"ok": true})
	})
}
