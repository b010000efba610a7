// Package ws implements an alternate MCP transport over
// gorilla/websocket: each text frame carries one JSON-RPC message,
// mirroring the LineDelimited framing mode's message boundary semantics
// but using websocket frames instead of newlines.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades an HTTP connection to a websocket and pumps JSON-RPC
// messages through dispatcher until the client disconnects.
type Handler struct {
	Dispatcher *mcp.Dispatcher
	Logger     *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(dispatcher *mcp.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Dispatcher: dispatcher, Logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp, ok := h.handleMessage(ctx, data)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			h.Logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, data []byte) (mcp.Response, bool) {
	var req mcp.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return mcp.MakeError(nil, mcp.CodeParseError, "invalid JSON", nil), true
	}
	return h.Dispatcher.Handle(ctx, req)
}
