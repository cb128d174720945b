// Package transport frames JSON-RPC messages over a byte stream, one message
// per line, as used by MCP's stdio transport.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultMaxMessageSize bounds a single inbound line.
const DefaultMaxMessageSize = 10 << 20

// ErrMessageTooLarge describes an inbound line that exceeded the size limit.
// The line is discarded and answered with an invalid-request error.
var ErrMessageTooLarge = errors.New("message exceeds maximum size")

// MessageHandler handles one decoded message and returns the response to
// write, or nil when nothing must be written (notifications).
type MessageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// HandlerFunc adapts a function to MessageHandler.
type HandlerFunc func(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return f(ctx, message)
}

// Stdio reads newline-delimited messages from in and writes responses to out.
// Messages are handled one at a time, so responses leave in request order.
type Stdio struct {
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger
	maxSize int

	mu sync.Mutex
}

// Option configures a Stdio transport.
type Option func(*Stdio)

// WithLogger sets the logger used for protocol faults.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stdio) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxMessageSize sets the maximum accepted line length in bytes.
func WithMaxMessageSize(n int) Option {
	return func(s *Stdio) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// New creates a transport over the given stream pair.
func New(in io.Reader, out io.Writer, opts ...Option) *Stdio {
	s := &Stdio{
		in:      in,
		out:     out,
		logger:  slog.Default(),
		maxSize: DefaultMaxMessageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type line struct {
	data      []byte
	oversized bool
	err       error
}

// Serve reads messages until the input is exhausted or ctx is cancelled.
// It returns nil on end of input and ctx.Err() on cancellation.
//
// Input that is not valid JSON is answered with a JSON-RPC parse error and
// lines over the size limit with an invalid-request error; neither is passed
// to h and the loop keeps reading.
func (s *Stdio) Serve(ctx context.Context, h MessageHandler) error {
	lines := make(chan line)
	readerDone := make(chan struct{})
	defer close(readerDone)

	go s.readLines(lines, readerDone)

	for {
		var l line
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l = <-lines:
		}

		if l.err != nil {
			if errors.Is(l.err, io.EOF) {
				s.logger.Debug("Input closed")
				return nil
			}
			return fmt.Errorf("read message: %w", l.err)
		}

		if l.oversized {
			s.logger.Warn("Discarding oversized message", "error", ErrMessageTooLarge, "limit", s.maxSize)
			if err := s.Write(mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.INVALID_REQUEST, ErrMessageTooLarge.Error(),
				map[string]any{"limit": s.maxSize})); err != nil {
				return err
			}
			continue
		}

		if err := s.handle(ctx, h, l.data); err != nil {
			return err
		}
	}
}

func (s *Stdio) handle(ctx context.Context, h MessageHandler, data []byte) error {
	if !json.Valid(data) {
		s.logger.Warn("Discarding unparsable message", "size", len(data))
		return s.Write(mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil))
	}

	resp := h.HandleMessage(ctx, json.RawMessage(data))
	if resp == nil {
		return nil
	}
	return s.Write(resp)
}

// readLines pumps lines into out until EOF or a read error. Blank lines are
// skipped and lines over the size limit are reported once, without their
// content. It stops early once done is closed.
func (s *Stdio) readLines(out chan<- line, done <-chan struct{}) {
	r := bufio.NewReaderSize(s.in, 64*1024)
	send := func(l line) bool {
		select {
		case out <- l:
			return true
		case <-done:
			return false
		}
	}

	var (
		buf        []byte
		discarding bool // inside an oversized line, skipping to its end
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(buf) > 0 && !discarding && errors.Is(err, io.EOF) {
				if !send(line{data: buf}) {
					return
				}
			}
			send(line{err: err})
			return
		}

		if discarding {
			discarding = isPrefix
			continue
		}

		buf = append(buf, chunk...)
		if len(buf) > s.maxSize {
			buf = nil
			discarding = isPrefix
			if !send(line{oversized: true}) {
				return
			}
			continue
		}
		if isPrefix {
			continue
		}

		data := bytes.TrimSpace(buf)
		buf = nil
		if len(data) == 0 {
			continue
		}
		if !send(line{data: data}) {
			return
		}
	}
}

// Write encodes msg as a single line. Concurrent writers are serialized.
func (s *Stdio) Write(msg mcp.JSONRPCMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
