package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/registry"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(_ context.Context, args map[string]any) (domain.Content, error) {
	return domain.Text(args["text"].(string)), nil
}

func searchEntry() registry.Entry {
	return registry.Entry{
		Tool: mcp.NewTool("search",
			mcp.WithDescription("Search things"),
			mcp.WithString("query", mcp.Required(), mcp.Description("What to look for")),
			mcp.WithNumber("limit", mcp.DefaultNumber(5), mcp.Min(1)),
			mcp.WithNumber("temperature", mcp.DefaultNumber(0.7), mcp.Min(0), mcp.Max(1)),
		),
		Handler: func(_ context.Context, args map[string]any) (domain.Content, error) {
			return domain.Text(args["query"].(string)), nil
		},
	}
}

func echoEntry() registry.Entry {
	return registry.Entry{
		Tool: mcp.NewTool("echo",
			mcp.WithString("text", mcp.Required()),
		),
		Handler: echo,
	}
}

func TestNew_Rejects(t *testing.T) {
	_, err := registry.New(registry.Entry{Tool: mcp.NewTool(""), Handler: echo})
	assert.ErrorContains(t, err, "empty name")

	_, err = registry.New(echoEntry(), echoEntry())
	assert.ErrorContains(t, err, `duplicate tool "echo"`)

	_, err = registry.New(registry.Entry{Tool: mcp.NewTool("nohandler")})
	assert.ErrorContains(t, err, "no handler")
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	reg, err := registry.New(searchEntry(), echoEntry())
	require.NoError(t, err)

	assert.Equal(t, []string{"search", "echo"}, reg.Names())

	tools := reg.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "search", tools[0].Name)
	assert.Equal(t, "Search things", tools[0].Description)

	e, ok := reg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", e.Name())

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestEntry_Defaults(t *testing.T) {
	reg := registry.MustNew(searchEntry())
	e, _ := reg.Lookup("search")

	defaults := e.Defaults()
	assert.Equal(t, map[string]any{"limit": 5.0, "temperature": 0.7}, defaults)

	// Defaults returns a copy.
	defaults["limit"] = 99.0
	assert.Equal(t, 5.0, e.Defaults()["limit"])
}

func TestEntry_Prepare(t *testing.T) {
	reg := registry.MustNew(searchEntry())
	e, _ := reg.Lookup("search")

	tests := []struct {
		name    string
		args    map[string]any
		want    map[string]any
		wantErr string
	}{
		{
			name: "Defaults Applied",
			args: map[string]any{"query": "actors"},
			want: map[string]any{"query": "actors", "limit": 5.0, "temperature": 0.7},
		},
		{
			name: "Caller Overrides Default",
			args: map[string]any{"query": "actors", "limit": 3.0},
			want: map[string]any{"query": "actors", "limit": 3.0, "temperature": 0.7},
		},
		{
			name: "Null Treated As Absent",
			args: map[string]any{"query": "actors", "limit": nil},
			want: map[string]any{"query": "actors", "limit": 5.0, "temperature": 0.7},
		},
		{
			name:    "Missing Required",
			args:    map[string]any{},
			wantErr: `missing required argument "query"`,
		},
		{
			name:    "Nil Args Missing Required",
			args:    nil,
			wantErr: `missing required argument "query"`,
		},
		{
			name:    "Out Of Range",
			args:    map[string]any{"query": "q", "temperature": 1.5},
			wantErr: "invalid arguments: at '/temperature'",
		},
		{
			name:    "Wrong Type",
			args:    map[string]any{"query": 42.0},
			wantErr: "invalid arguments: at '/query'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Prepare(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var te *domain.ToolError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, domain.KindValidation, te.Kind)
				assert.Equal(t, "search", te.Tool)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_Execute(t *testing.T) {
	reg := registry.MustNew(echoEntry())

	content, err := reg.Execute(context.Background(), "echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", content.String())

	_, err = reg.Execute(context.Background(), "missing", nil)
	var te *domain.ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.KindUnknownTool, te.Kind)
	assert.Equal(t, "Unknown tool: missing", te.Error())
}

func TestRegistry_Properties(t *testing.T) {
	reg := registry.MustNew(searchEntry(), echoEntry())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("unregistered names are never resolved", prop.ForAll(
		func(name string) bool {
			_, ok := reg.Lookup(name)
			if name == "search" || name == "echo" {
				return ok
			}
			return !ok
		},
		gen.AnyString(),
	))

	properties.Property("catalog is stable across repeated reads", prop.ForAll(
		func(n int) bool {
			first := reg.Names()
			for i := 0; i < n; i++ {
				again := reg.Names()
				if len(again) != len(first) {
					return false
				}
				for j := range first {
					if again[j] != first[j] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 10),
	))

	properties.Property("every descriptor is an object schema with a name", prop.ForAll(
		func(i int) bool {
			tools := reg.Tools()
			tool := tools[i%len(tools)]
			return tool.Name != "" && tool.InputSchema.Type == "object"
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
