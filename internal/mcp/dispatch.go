package mcp

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Dispatcher routes incoming JSON-RPC requests to the initialize
// handshake, tools/list, tools/call, and the registered tool handlers.
type Dispatcher struct {
	Registry      *Registry
	ServerName    string
	ServerVersion string
	Logger        *zap.Logger
}

// NewDispatcher constructs a Dispatcher over registry.
func NewDispatcher(registry *Registry, serverName, serverVersion string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Registry: registry, ServerName: serverName, ServerVersion: serverVersion, Logger: logger}
}

// toolCallParams is the tools/call request body.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Handle processes one parsed Request and returns the Response to send,
// or (zero, false) if req is a notification that expects no reply.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (Response, bool) {
	if !IsJSONRPCV2(req) {
		return MakeError(req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"", nil), !IsNotification(req)
	}
	if !IsValidRequestID(req.ID) {
		return MakeError(req.ID, CodeInvalidRequest, "invalid request id", nil), true
	}

	switch req.Method {
	case "initialize":
		result, err := HandleInitialize(req.Params, d.ServerName, d.ServerVersion)
		if err != nil {
			return MakeError(req.ID, CodeInvalidParams, err.Error(), nil), true
		}
		return MakeResponse(req.ID, result), true

	case "notifications/initialized":
		return Response{}, false

	case "tools/list":
		return MakeResponse(req.ID, map[string]any{"tools": d.Registry.List()}), true

	case "tools/call":
		return d.handleToolCall(ctx, req)

	default:
		if IsNotification(req) {
			d.Logger.Debug("ignoring unknown notification", zap.String("method", req.Method))
			return Response{}, false
		}
		return MakeError(req.ID, CodeMethodNotFound, "method not found: "+req.Method, nil), true
	}
}

func (d *Dispatcher) handleToolCall(ctx context.Context, req Request) (Response, bool) {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return MakeError(req.ID, CodeInvalidParams, "invalid tools/call params", nil), true
	}
	result, ok := d.Registry.Call(ctx, params.Name, params.Arguments)
	if !ok {
		return MakeError(req.ID, CodeMethodNotFound, "unknown tool: "+params.Name, nil), true
	}
	return MakeResponse(req.ID, result), true
}
