package tools

import (
	"context"
	"fmt"

	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/registry"
)

// ContextArgs are the arguments of get_motoko_context.
type ContextArgs struct {
	Query string `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
}

func contextHandler(b Backend) registry.Handler {
	return func(ctx context.Context, raw map[string]any) (domain.Content, error) {
		var args ContextArgs
		if err := decodeArgs(GetMotokoContext, raw, &args); err != nil {
			return nil, err
		}

		resp, err := b.Context(ctx, backend.ContextRequest{
			Query: args.Query,
			Limit: args.Limit,
		})
		if err != nil {
			return nil, domain.NewToolError(GetMotokoContext, domain.KindBackend,
				fmt.Sprintf("Failed to retrieve context: %v", err), err)
		}
		return FormatContext(args.Query, resp), nil
	}
}
