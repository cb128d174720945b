package tools

import (
	"context"
	"fmt"

	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/registry"
)

// GenerateArgs are the arguments of generate_motoko_code.
type GenerateArgs struct {
	Prompt      string  `mapstructure:"prompt"`
	Query       string  `mapstructure:"query"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

func generateHandler(b Backend) registry.Handler {
	return func(ctx context.Context, raw map[string]any) (domain.Content, error) {
		var args GenerateArgs
		if err := decodeArgs(GenerateMotokoCode, raw, &args); err != nil {
			return nil, err
		}

		resp, err := b.Generate(ctx, backend.GenerateRequest{
			Prompt:      args.Prompt,
			Query:       args.Query,
			Temperature: args.Temperature,
			MaxTokens:   args.MaxTokens,
		})
		if err != nil {
			return nil, domain.NewToolError(GenerateMotokoCode, domain.KindBackend,
				fmt.Sprintf("Failed to generate code: %v", err), err)
		}
		return FormatGenerate(resp), nil
	}
}
