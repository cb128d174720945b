// Package tools implements the Motoko tools exposed by the gateway and the
// markdown formatting of their results.
package tools

import (
	"context"
	"math"

	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	GetMotokoContext   = "get_motoko_context"
	GenerateMotokoCode = "generate_motoko_code"
)

// Default argument values declared in the input schemas.
const (
	DefaultLimit       = 5
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// MaxCount bounds the integer-valued arguments (limit, max_tokens) so they
// always fit the backend's int fields.
const MaxCount = math.MaxInt32

// Backend is the subset of *backend.Client the tools depend on.
type Backend interface {
	Context(ctx context.Context, req backend.ContextRequest) (*backend.ContextResponse, error)
	Generate(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error)
}

// Catalog returns the fixed, ordered list of tools backed by b.
func Catalog(b Backend) []registry.Entry {
	return []registry.Entry{
		{Tool: contextTool(), Handler: contextHandler(b)},
		{Tool: generateTool(), Handler: generateHandler(b)},
	}
}

// NewRegistry builds the registry for the catalog.
func NewRegistry(b Backend) (*registry.Registry, error) {
	return registry.New(Catalog(b)...)
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(b Backend) *registry.Registry {
	return registry.MustNew(Catalog(b)...)
}

func contextTool() mcp.Tool {
	return mcp.NewTool(GetMotokoContext,
		mcp.WithDescription("Retrieve relevant Motoko code snippets and documentation for a query, ranked by relevance."),
		mcp.WithString("query", mcp.Required(), mcp.Description("What to search the Motoko knowledge base for")),
		mcp.WithNumber("limit", mcp.DefaultNumber(DefaultLimit), mcp.Min(1), mcp.Max(MaxCount), mcp.MultipleOf(1), mcp.Description("Maximum number of results to return")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func generateTool() mcp.Tool {
	return mcp.NewTool(GenerateMotokoCode,
		mcp.WithDescription("Generate Motoko code from a natural-language prompt, grounded on retrieved Motoko context."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the code to generate")),
		mcp.WithString("query", mcp.Description("Optional retrieval query used to ground the generation")),
		mcp.WithNumber("temperature", mcp.DefaultNumber(DefaultTemperature), mcp.Min(0), mcp.Max(1), mcp.Description("Sampling temperature between 0.0 and 1.0")),
		mcp.WithNumber("max_tokens", mcp.DefaultNumber(DefaultMaxTokens), mcp.Min(1), mcp.Max(MaxCount), mcp.MultipleOf(1), mcp.Description("Maximum number of tokens to generate")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}
