// Package tools wires every MCP-exposed tool to the underlying
// room/auth/session/handover/planning components; Deps also carries the
// rate-limit registry, which no handler consults. Each
// namespace file (agent.go, lock.go, task.go, ...) registers its tools
// against a shared mcp.Registry; handlers never panic on malformed
// input, always returning a descriptive error instead.
package tools

import (
	"encoding/json"
	"fmt"
)

// decodeArgs unmarshals raw tool-call arguments into a map for the
// getX helpers below. Missing/empty arguments decode to an empty map
// rather than erroring, since some tools take no arguments.
func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("tools: decoding arguments: %w", err)
	}
	return m, nil
}

func getString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("tools: missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("tools: argument %q must be a string", key)
	}
	if s == "" {
		return "", fmt.Errorf("tools: argument %q must not be empty", key)
	}
	return s, nil
}

func getStringOpt(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func getIntOpt(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	f, ok := v.(float64) // encoding/json decodes all JSON numbers as float64
	if !ok {
		return def
	}
	return int(f)
}

func getFloat(args map[string]any, key string, def float64) float64 {
	v, ok := args[key]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return f
}

func getBool(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func getStringList(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// rawSchema is a convenience wrapper so tool registration call sites can
// write a Go map literal instead of a hand-escaped JSON string.
func rawSchema(schema map[string]any) json.RawMessage {
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: invalid schema literal: %v", err))
	}
	return data
}
