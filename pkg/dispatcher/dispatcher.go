package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/registry"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Call outcomes reported to the Recorder.
const (
	OutcomeSuccess     = "success"
	OutcomeToolError   = "tool_error"
	OutcomeUnknownTool = "unknown_tool"
)

// Recorder receives one observation per tool call.
type Recorder interface {
	ObserveToolCall(tool, outcome string, d time.Duration)
}

// Dispatcher resolves protocol messages against the tool registry.
// It answers tools/list and tools/call itself and hands the rest of the MCP
// surface (initialize, ping, notifications, unknown methods) to an embedded
// mcp-go server.
//
// Dispatcher keeps no state between messages.
type Dispatcher struct {
	registry *registry.Registry
	mcp      *server.MCPServer
	logger   *slog.Logger
	recorder Recorder

	name         string
	version      string
	instructions string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRecorder registers a per-call observer (e.g. metrics).
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithServerInfo sets the name and version advertised during initialize.
func WithServerInfo(name, version string) Option {
	return func(d *Dispatcher) {
		d.name = name
		d.version = version
	}
}

// WithInstructions sets the instructions returned during initialize.
func WithInstructions(s string) Option {
	return func(d *Dispatcher) {
		d.instructions = s
	}
}

// New creates a Dispatcher over reg.
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   slog.Default(),
		name:     "motoko-mcp",
		version:  "dev",
	}
	for _, opt := range opts {
		opt(d)
	}

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(_ context.Context, _ any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
		d.logger.Info("MCP client initialized",
			"client", req.Params.ClientInfo.Name,
			"client_version", req.Params.ClientInfo.Version,
			"protocol", res.ProtocolVersion,
		)
	})
	hooks.AddOnError(func(_ context.Context, id any, method mcp.MCPMethod, _ any, err error) {
		d.logger.Warn("MCP request failed", "id", id, "method", method, "error", err)
	})

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	}
	if d.instructions != "" {
		serverOpts = append(serverOpts, server.WithInstructions(d.instructions))
	}
	d.mcp = server.NewMCPServer(d.name, d.version, serverOpts...)
	return d
}

// Registry returns the registry the dispatcher resolves calls against.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// envelope is the routing view of an inbound JSON-RPC message.
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *mcp.RequestId  `json:"id,omitempty"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// HandleMessage processes one inbound JSON-RPC message and returns the
// response to write, or nil for notifications.
func (d *Dispatcher) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.ID == nil || env.ID.IsNil() || env.JSONRPC != mcp.JSONRPC_VERSION {
		// Parse failures, notifications and malformed envelopes are answered
		// by the protocol server.
		return d.mcp.HandleMessage(ctx, raw)
	}

	switch env.Method {
	case mcp.MethodToolsList:
		return mcp.NewJSONRPCResultResponse(*env.ID, d.ListTools())

	case mcp.MethodToolsCall:
		var req mcp.CallToolRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return mcp.NewJSONRPCError(*env.ID, mcp.INVALID_PARAMS, "Invalid tools/call params", err.Error())
		}
		if req.Params.Name == "" {
			return mcp.NewJSONRPCError(*env.ID, mcp.INVALID_PARAMS, "Invalid tools/call params", "missing tool name")
		}
		return mcp.NewJSONRPCResultResponse(*env.ID, d.Call(ctx, req))

	default:
		return d.mcp.HandleMessage(ctx, raw)
	}
}

// ListTools returns the full catalog in registration order.
func (d *Dispatcher) ListTools() *mcp.ListToolsResult {
	return mcp.NewListToolsResult(d.registry.Tools(), "")
}

// Call runs one tool call to completion and always returns a result.
// Tool-level faults, including panics inside handlers, come back as
// error-flagged results with a single "Error: <message>" text block.
func (d *Dispatcher) Call(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult) {
	name := req.Params.Name
	callID := uuid.NewString()
	logger := d.logger.With("tool", name, "call_id", callID)
	start := time.Now()
	outcome := OutcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Tool handler panicked", "panic", r, "stack", string(debug.Stack()))
			outcome = OutcomeToolError
			result = domain.ErrorResult(fmt.Sprintf("internal error: %v", r))
		}
		elapsed := time.Since(start)
		if d.recorder != nil {
			d.recorder.ObserveToolCall(name, outcome, elapsed)
		}
		logger.Debug("Tool call finished", "outcome", outcome, "duration", elapsed, "is_error", result.IsError)
	}()

	logger.Debug("Dispatching tool call")
	content, err := d.registry.Execute(ctx, name, argumentsOf(req))
	if err != nil {
		te := domain.AsToolError(name, err)
		switch te.Kind {
		case domain.KindUnknownTool:
			outcome = OutcomeUnknownTool
			logger.Warn("Unknown tool requested")
		case domain.KindValidation:
			outcome = OutcomeToolError
			logger.Info("Tool arguments rejected", "error", err)
		default:
			outcome = OutcomeToolError
			logger.Warn("Tool call failed", "kind", te.Kind, "error", err)
		}
		return domain.ErrorResult(te.Message)
	}
	return content.Result()
}

// argumentsOf returns the call arguments as a map. Arguments that are not a
// JSON object are treated as empty so validation reports what is missing.
func argumentsOf(req mcp.CallToolRequest) map[string]any {
	if args := req.GetArguments(); args != nil {
		return args
	}
	return map[string]any{}
}
