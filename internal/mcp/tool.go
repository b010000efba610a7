package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Tool describes one callable tool for the tools/list response.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolHandler executes one tool call. args is the raw "arguments" object
// from the tools/call request; handlers decode it themselves.
type ToolHandler func(ctx context.Context, args json.RawMessage) (CallToolResult, error)

// CallToolResult is the tools/call response body: a list of content
// blocks plus an IsError flag the client uses to distinguish a tool-level
// failure from a JSON-RPC transport error.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of a tool result; this server only emits text
// blocks.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult wraps a value as a single JSON text content block.
func TextResult(v any) (CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return CallToolResult{}, err
	}
	return CallToolResult{Content: []ContentBlock{{Type: "text", Text: string(data)}}}, nil
}

// ErrorResult wraps an error message as an IsError tool result. This is
// not a JSON-RPC error: the call succeeded at the protocol level, the
// tool itself reports failure.
func ErrorResult(err error) CallToolResult {
	return CallToolResult{Content: []ContentBlock{{Type: "text", Text: err.Error()}}, IsError: true}
}

// Registry holds every registered tool's schema and handler, aggregated
// from each namespace package's own registration call (agent, lock,
// task, room, control, auth, session, planning, handover, ...).
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	handlers map[string]ToolHandler
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool), handlers: make(map[string]ToolHandler)}
}

// Register adds one tool and its handler. A duplicate name panics at
// startup wiring time rather than silently shadowing a handler.
func (r *Registry) Register(tool Tool, handler ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		panic(fmt.Sprintf("mcp: duplicate tool registration: %s", tool.Name))
	}
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
}

// List returns every registered Tool, sorted by name for a stable
// tools/list response.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call invokes the named tool's handler. The second return is false (with
// a zero CallToolResult) when no such tool is registered, letting the
// caller distinguish "unknown method" (-32601) from a tool-level error.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (CallToolResult, bool) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return CallToolResult{}, false
	}
	result, err := handler(ctx, args)
	if err != nil {
		return ErrorResult(err), true
	}
	return result, true
}
