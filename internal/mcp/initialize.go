package mcp

import (
	"encoding/json"
	"errors"
)

// ErrUnsupportedProtocolVersion names a client-requested version this
// server does not recognize. The initialize handshake does not return it:
// NormalizeProtocolVersion falls back to the newest supported version.
var ErrUnsupportedProtocolVersion = errors.New("mcp: unsupported protocol version")

// InitializeParams is the client-supplied body of an initialize request.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion"`
	ClientInfo      ClientInfo      `json:"clientInfo"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
}

// ClientInfo identifies the connecting client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the server's reply to initialize.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

// ServerInfo identifies this server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities advertises which MCP feature groups this server
// implements. Only tools are offered; resources and prompts are not part
// of this server's surface.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability signals tool listing support and whether the tool list
// can change after initialize.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ProtocolVersionFromParams extracts the protocolVersion field from a raw
// initialize params payload.
func ProtocolVersionFromParams(params json.RawMessage) (string, error) {
	var p InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return "", err
	}
	return p.ProtocolVersion, nil
}

// NormalizeProtocolVersion maps a client-requested version to one this
// server actually speaks: an exact match is returned unchanged; anything
// else falls back to the newest SupportedProtocolVersions entry, mirroring
// a permissive server that prefers participating over refusing a
// near-miss version string.
func NormalizeProtocolVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return SupportedProtocolVersions[0]
}

// ValidateInitializeParams checks that params parses and names a
// clientInfo.name.
func ValidateInitializeParams(params json.RawMessage) (InitializeParams, error) {
	var p InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return InitializeParams{}, err
	}
	if p.ClientInfo.Name == "" {
		return InitializeParams{}, errors.New("mcp: initialize params missing clientInfo.name")
	}
	return p, nil
}

// HandleInitialize builds the InitializeResult for a validated request.
func HandleInitialize(params json.RawMessage, serverName, serverVersion string) (InitializeResult, error) {
	p, err := ValidateInitializeParams(params)
	if err != nil {
		return InitializeResult{}, err
	}
	return InitializeResult{
		ProtocolVersion: NormalizeProtocolVersion(p.ProtocolVersion),
		ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
		Capabilities:    ServerCapabilities{Tools: &ToolsCapability{ListChanged: false}},
	}, nil
}
