// Package mention parses the first @-token in a message body and resolves
// it to a set of recipient agent names. It never panics on pathological
// input: unicode, newlines, or a 1 MB run of "@" characters all return in
// linear time.
package mention

import (
	"strings"
)

// Mode is the routing mode a parsed mention resolves to.
type Mode int

const (
	// ModeNone means no @ token was found; the message is a room-wide
	// broadcast with no targeted delivery.
	ModeNone Mode = iota
	// ModeStateless routes to any one live agent of the named type
	// (e.g. "@researcher").
	ModeStateless
	// ModeStateful routes to an exact agent instance
	// (e.g. "@researcher-curious-fox").
	ModeStateful
	// ModeBroadcast routes to every agent whose type matches the target,
	// or every agent if the target is "all" (e.g. "@@researcher", "@@all").
	ModeBroadcast
)

func (m Mode) String() string {
	switch m {
	case ModeStateless:
		return "stateless"
	case ModeStateful:
		return "stateful"
	case ModeBroadcast:
		return "broadcast"
	default:
		return "none"
	}
}

// Mention is the result of parsing the first @ token in a message.
type Mention struct {
	Mode   Mode
	Target string // the type (stateless/broadcast) or full instance name (stateful)
}

const allTarget = "all"

// isMentionBodyRune reports whether r can appear inside a mention token's
// body (after the leading @ or @@). Mirrors a typical agent-name alphabet:
// letters, digits, '-', '_'.
func isMentionBodyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	default:
		return false
	}
}

// Parse scans content for the first @ or @@ token and classifies it.
// Broadcast (@@) takes priority over a single @ when both could match at
// the same position; the first mention in the message wins overall.
func Parse(content string) Mention {
	runes := []rune(content)
	n := len(runes)
	for i := 0; i < n; i++ {
		if runes[i] != '@' {
			continue
		}
		broadcast := i+1 < n && runes[i+1] == '@'
		start := i + 1
		if broadcast {
			start = i + 2
		}
		end := start
		for end < n && isMentionBodyRune(runes[end]) {
			end++
		}
		if end == start {
			// Bare "@" or "@@" with nothing following: not a usable token,
			// keep scanning from the next rune.
			continue
		}
		body := string(runes[start:end])
		if broadcast {
			return Mention{Mode: ModeBroadcast, Target: body}
		}
		if isStatefulShape(body) {
			return Mention{Mode: ModeStateful, Target: body}
		}
		return Mention{Mode: ModeStateless, Target: body}
	}
	return Mention{Mode: ModeNone}
}

// Extract agrees with Parse: it returns the target name, or "" for
// ModeNone. Kept as a separate entry point because some callers only need
// the name, not the full classification (§8 property: Extract and Parse
// must never disagree).
func Extract(content string) string {
	m := Parse(content)
	if m.Mode == ModeNone {
		return ""
	}
	return m.Target
}

// isStatefulShape detects the "type-adjective-animal" shape: at least two
// hyphens, each segment non-empty. Underscores do not count as hyphen
// separators — agent_type_of_mention("claude_v2") keeps the underscore,
// per the documented source behavior this implementation preserves.
func isStatefulShape(body string) bool {
	parts := strings.Split(body, "-")
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// AgentTypeOfMention returns the leading type segment of a stateful
// mention body ("researcher-curious-fox" -> "researcher"). For a body with
// no hyphen it returns the body unchanged, so
// AgentTypeOfMention("claude_v2") == "claude_v2": underscores are kept,
// only a hyphen splits off the type.
func AgentTypeOfMention(body string) string {
	if i := strings.Index(body, "-"); i >= 0 {
		return body[:i]
	}
	return body
}

// ResolveTargets resolves a parsed Mention against the set of currently
// registered agent names.
//
//   - Stateless "X": one agent whose name starts with "X" (dispatcher's
//     choice among ties; the first match in iteration order is taken).
//   - Stateful "X-a-b": exact match only (may be empty).
//   - Broadcast "X": every agent whose name starts with "X", or every
//     agent if X == "all".
//   - None: empty; the caller routes it as a room broadcast instead.
func ResolveTargets(m Mention, availableAgents []string) []string {
	switch m.Mode {
	case ModeStateless:
		for _, name := range availableAgents {
			if strings.HasPrefix(name, m.Target) {
				return []string{name}
			}
		}
		return nil
	case ModeStateful:
		for _, name := range availableAgents {
			if name == m.Target {
				return []string{name}
			}
		}
		return nil
	case ModeBroadcast:
		if m.Target == allTarget {
			out := make([]string, len(availableAgents))
			copy(out, availableAgents)
			return out
		}
		var out []string
		for _, name := range availableAgents {
			if strings.HasPrefix(name, m.Target) {
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}

// DefaultSpawnableTypes is the known-spawnable set IsSpawnable consults.
// Its contents are fixed here and nothing else in the server adds to it,
// so the router package owns the single source of truth for "is this type
// one an external spawner can bring up".
var DefaultSpawnableTypes = map[string]bool{
	"researcher": true,
	"reviewer":   true,
	"implementer": true,
	"tester":     true,
}

// IsSpawnable reports whether agentType is in the known-spawnable set.
func IsSpawnable(agentType string) bool {
	return DefaultSpawnableTypes[agentType]
}
