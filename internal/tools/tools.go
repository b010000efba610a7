package tools

import (
	"github.com/masc-mcp/masc-mcp/internal/auth"
	"github.com/masc-mcp/masc-mcp/internal/handover"
	"github.com/masc-mcp/masc-mcp/internal/mcp"
	"github.com/masc-mcp/masc-mcp/internal/planning"
	"github.com/masc-mcp/masc-mcp/internal/ratelimit"
	"github.com/masc-mcp/masc-mcp/internal/room"
	"github.com/masc-mcp/masc-mcp/internal/session"
)

// Deps bundles every component a tool handler may need. A single Deps
// value is shared by all namespaces registered against one Room.
type Deps struct {
	Room      *room.Room
	Auth      *auth.Manager
	RateLimit *ratelimit.Registry
	Sessions  *session.McpSessionStore
	Handover  *handover.Store
	Planning  *planning.Store
}

// RegisterAll wires every namespace's tools into registry.
func RegisterAll(registry *mcp.Registry, deps Deps) {
	registerAgentTools(registry, deps)
	registerLockTools(registry, deps)
	registerTaskTools(registry, deps)
	registerRoomTools(registry, deps)
	registerControlTools(registry, deps)
	registerAuthTools(registry, deps)
	registerSessionTools(registry, deps)
	registerPlanningTools(registry, deps)
	registerHandoverTools(registry, deps)
	registerStubTools(registry, deps)
}
