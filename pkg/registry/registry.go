package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// Handler defines the signature for a tool implementation.
// It receives the arguments already merged over the tool's defaults and
// validated against its input schema.
type Handler func(ctx context.Context, args map[string]any) (domain.Content, error)

// Entry binds a tool descriptor to its handler.
type Entry struct {
	Tool    mcp.Tool
	Handler Handler

	schema   *jsonschema.Schema
	defaults map[string]any
}

// Name returns the tool name.
func (e Entry) Name() string {
	return e.Tool.Name
}

// Defaults returns a copy of the defaults declared by the input schema.
func (e Entry) Defaults() map[string]any {
	out := make(map[string]any, len(e.defaults))
	for k, v := range e.defaults {
		out[k] = v
	}
	return out
}

// Prepare merges args over the declared defaults and validates the result
// against the input schema. Null arguments count as absent.
// Validation failures are returned as *domain.ToolError.
func (e Entry) Prepare(args map[string]any) (map[string]any, error) {
	merged := e.Defaults()
	for k, v := range args {
		if v == nil {
			continue
		}
		merged[k] = v
	}

	if e.schema == nil {
		return merged, nil
	}
	if err := e.schema.Validate(merged); err != nil {
		return nil, domain.NewToolError(e.Name(), domain.KindValidation, describeValidation(err), err)
	}
	return merged, nil
}

// Registry is the fixed catalog of tools. It is built once and is read-only
// afterwards, so it is safe for concurrent use without locking.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// New builds a registry from entries, preserving their order.
// It fails on empty or duplicate names, missing handlers, or input schemas
// that do not compile.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := e.Tool.Name
		if name == "" {
			return nil, errors.New("registry: tool with empty name")
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("registry: duplicate tool %q", name)
		}
		if e.Handler == nil {
			return nil, fmt.Errorf("registry: tool %q has no handler", name)
		}

		schema, defaults, err := compile(e.Tool)
		if err != nil {
			return nil, fmt.Errorf("registry: tool %q: %w", name, err)
		}
		e.schema = schema
		e.defaults = defaults

		r.index[name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for static catalogs.
func MustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Tools returns the descriptors in registration order.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Tool
	}
	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Tool.Name
	}
	return out
}

// Lookup returns the entry registered under name.
// The boolean is false when no such tool exists.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Execute looks up a tool by name, prepares its arguments and runs it.
// Returns a *domain.ToolError of kind unknown_tool if the tool is not found.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (domain.Content, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, domain.NewToolError(name, domain.KindUnknownTool, "Unknown tool: "+name, nil)
	}
	prepared, err := e.Prepare(args)
	if err != nil {
		return nil, err
	}
	return e.Handler(ctx, prepared)
}

func compile(tool mcp.Tool) (*jsonschema.Schema, map[string]any, error) {
	raw, err := json.Marshal(tool)
	if err != nil {
		return nil, nil, fmt.Errorf("encode descriptor: %w", err)
	}
	var wire struct {
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, nil, fmt.Errorf("decode descriptor: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(wire.InputSchema))
	if err != nil {
		return nil, nil, fmt.Errorf("decode input schema: %w", err)
	}

	url := "mem://tools/" + tool.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, nil, fmt.Errorf("compile schema: %w", err)
	}

	var props struct {
		Properties map[string]struct {
			Default any `json:"default"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(wire.InputSchema, &props); err != nil {
		return nil, nil, fmt.Errorf("decode properties: %w", err)
	}
	defaults := make(map[string]any)
	for name, p := range props.Properties {
		if p.Default != nil {
			defaults[name] = p.Default
		}
	}
	return schema, defaults, nil
}

// describeValidation flattens a schema validation error into a single line
// suitable for a tool result.
func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return "invalid arguments: " + err.Error()
	}

	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		switch k := e.ErrorKind.(type) {
		case *kind.Required:
			for _, m := range k.Missing {
				msgs = append(msgs, fmt.Sprintf("missing required argument %q", m))
			}
		default:
			msgs = append(msgs, e.Error())
		}
	}
	walk(ve)

	if len(msgs) == 0 {
		return "invalid arguments"
	}
	if len(msgs) == 1 && strings.HasPrefix(msgs[0], "missing required argument") {
		return msgs[0]
	}
	return "invalid arguments: " + strings.Join(msgs, "; ")
}
