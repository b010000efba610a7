package mcp

import "strings"

// FramingMode is the wire framing a transport uses to delimit JSON-RPC
// messages on a byte stream.
type FramingMode int

const (
	// LineDelimited frames each message as one line, newline-terminated.
	LineDelimited FramingMode = iota
	// Framed prefixes each message with "Content-Length: N\r\n\r\n"
	// followed by exactly N bytes, LSP-style.
	Framed
)

// DetectMode inspects the first bytes of a stream and reports which
// framing mode it uses: a leading "Content-Length:" header, in any letter
// case, marks Framed; anything else (including a bare "{") is treated as
// LineDelimited.
func DetectMode(head string) FramingMode {
	if strings.HasPrefix(strings.ToLower(strings.TrimLeft(head, " \t\r\n")), "content-length:") {
		return Framed
	}
	return LineDelimited
}
