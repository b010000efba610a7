package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

func newTestDispatcher() *mcp.Dispatcher {
	registry := mcp.NewRegistry()
	registry.Register(mcp.Tool{Name: "echo", Description: "echoes input", InputSchema: json.RawMessage(`{}`)},
		func(ctx context.Context, args json.RawMessage) (mcp.CallToolResult, error) {
			return mcp.TextResult(map[string]string{"echo": string(args)})
		})
	return mcp.NewDispatcher(registry, "masc-mcp", "test", nil)
}

func TestInitializeHandshake(t *testing.T) {
	d := newTestDispatcher()
	req := mcp.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
		Params:  json.RawMessage(`{"protocolVersion":"2025-11-25","clientInfo":{"name":"tester","version":"0.1"}}`),
	}
	resp, ok := d.Handle(context.Background(), req)
	require.True(t, ok)
	require.Nil(t, resp.Error)

	var result mcp.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Equal(t, mcp.ProtocolVersion, result.ProtocolVersion)
}

func TestToolsListAndCall(t *testing.T) {
	d := newTestDispatcher()
	listResp, ok := d.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage(`2`), Method: "tools/list"})
	require.True(t, ok)
	require.Nil(t, listResp.Error)

	callResp, ok := d.Handle(context.Background(), mcp.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`3`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"echo","arguments":{"x":1}}`),
	})
	require.True(t, ok)
	require.Nil(t, callResp.Error)
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	d := newTestDispatcher()
	resp, ok := d.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage(`4`), Method: "bogus"})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	require.Equal(t, mcp.CodeMethodNotFound, resp.Error.Code)
}

func TestUnknownToolReturnsMethodNotFound(t *testing.T) {
	d := newTestDispatcher()
	resp, ok := d.Handle(context.Background(), mcp.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`5`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"nope","arguments":{}}`),
	})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	require.Equal(t, mcp.CodeMethodNotFound, resp.Error.Code)
}

func TestNotificationGetsNoResponse(t *testing.T) {
	d := newTestDispatcher()
	_, ok := d.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", Method: "notifications/initialized"})
	require.False(t, ok)
}

func TestInvalidJSONRPCVersionRejected(t *testing.T) {
	d := newTestDispatcher()
	resp, ok := d.Handle(context.Background(), mcp.Request{JSONRPC: "1.0", ID: json.RawMessage(`6`), Method: "initialize"})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	require.Equal(t, mcp.CodeInvalidRequest, resp.Error.Code)
}

func TestDetectModeFramed(t *testing.T) {
	require.Equal(t, mcp.Framed, mcp.DetectMode("Content-Length: 42\r\n\r\n"))
	require.Equal(t, mcp.LineDelimited, mcp.DetectMode(`{"jsonrpc":"2.0"}`))
}
