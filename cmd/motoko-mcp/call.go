package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/motoko-mcp/internal/presentation/tui"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func newCallCmd(o *globalOptions) *cobra.Command {
	var (
		rawArgs []string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print its result",
		Long: `Runs a single tool call through the same path as the MCP server.

Arguments are given as --arg key=value and are converted to the type the
tool's input schema declares for that key.`,
		Example: `  motoko-mcp call get_motoko_context --arg query="stable variables" --arg limit=3
  motoko-mcp call generate_motoko_code --arg prompt="a counter actor" --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.loadConfig()
			if err != nil {
				return err
			}
			gw, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}

			name := args[0]
			entry, _ := gw.dispatcher.Registry().Lookup(name)
			callArgs, err := parseArgs(entry, rawArgs)
			if err != nil {
				return err
			}

			req := mcp.CallToolRequest{}
			req.Params.Name = name
			req.Params.Arguments = callArgs
			result := gw.dispatcher.Call(cmd.Context(), req)

			out := cmd.OutOrStdout()
			if raw {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				render := tui.NewRenderer(out)
				text, err := render(domain.Content(result.Content).String())
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			}

			if result.IsError {
				return errToolFailed
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Tool argument as key=value (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw tools/call result as JSON")
	return cmd
}

// parseArgs turns key=value pairs into call arguments, typed after the
// entry's input schema. Keys the schema does not declare stay strings.
func parseArgs(entry registry.Entry, pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", p)
		}

		var kind string
		if prop, ok := entry.Tool.InputSchema.Properties[key].(map[string]any); ok {
			kind, _ = prop["type"].(string)
		}

		switch kind {
		case "number", "integer":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --arg %s: %q is not a number", key, value)
			}
			out[key] = f
		case "boolean":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid --arg %s: %q is not a boolean", key, value)
			}
			out[key] = b
		default:
			out[key] = value
		}
	}
	return out, nil
}
