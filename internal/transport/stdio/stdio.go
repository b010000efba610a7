// Package stdio runs the MCP dispatcher over a raw byte stream (typically
// the process's stdin/stdout), auto-detecting LineDelimited vs Framed
// wire framing from the first bytes read and committing to that mode for
// the life of the connection.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/masc-mcp/masc-mcp/internal/mcp"
)

// Server reads JSON-RPC requests from r and writes responses to w until r
// is exhausted or a read or write fails. ctx is passed to each dispatched
// call; cancelling it does not end Run or interrupt a pending read.
type Server struct {
	Dispatcher *mcp.Dispatcher
	Logger     *zap.Logger
}

// NewServer constructs a Server.
func NewServer(dispatcher *mcp.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Dispatcher: dispatcher, Logger: logger}
}

// Run drives the read-dispatch-write loop. It detects framing from the
// first non-empty chunk and then commits to that mode for the life of the
// connection.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	const headPeek = len("Content-Length:") + 8
	peek, err := br.Peek(headPeek)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return fmt.Errorf("stdio: peeking stream head: %w", err)
	}
	mode := mcp.DetectMode(string(peek))

	switch mode {
	case mcp.Framed:
		return s.runFramed(ctx, br, w)
	default:
		return s.runLineDelimited(ctx, br, w)
	}
}

func (s *Server) runLineDelimited(ctx context.Context, br *bufio.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.dispatchMessage(ctx, []byte(line), w, s.writeLine); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) runFramed(ctx context.Context, br *bufio.Reader, w io.Writer) error {
	for {
		length, err := readContentLength(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		body := make([]byte, length)
		if _, err := io.ReadFull(br, body); err != nil {
			return fmt.Errorf("stdio: reading framed body: %w", err)
		}
		if err := s.dispatchMessage(ctx, body, w, s.writeFramed); err != nil {
			return err
		}
	}
}

func readContentLength(br *bufio.Reader) (int, error) {
	length := -1
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return 0, fmt.Errorf("stdio: invalid Content-Length: %w", err)
			}
			length = n
		}
	}
	if length < 0 {
		return 0, fmt.Errorf("stdio: missing Content-Length header")
	}
	return length, nil
}

type writeFunc func(w io.Writer, resp mcp.Response) error

func (s *Server) dispatchMessage(ctx context.Context, raw []byte, w io.Writer, write writeFunc) error {
	var req mcp.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return write(w, mcp.MakeError(nil, mcp.CodeParseError, "invalid JSON", nil))
	}
	resp, ok := s.Dispatcher.Handle(ctx, req)
	if !ok {
		return nil
	}
	return write(w, resp)
}

func (s *Server) writeLine(w io.Writer, resp mcp.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

func (s *Server) writeFramed(w io.Writer, resp mcp.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
