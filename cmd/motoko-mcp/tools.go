package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/motoko-mcp/internal/config"
	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/dispatcher"
	"github.com/aretw0/motoko-mcp/pkg/tools"
	"github.com/spf13/cobra"
)

func newToolsCmd(o *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed by the gateway",
		Long:  `Prints the tool catalog. Does not contact the backend or require an API key.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Handlers are never invoked here, so the client needs no key.
			reg := tools.MustNewRegistry(backend.New(config.DefaultBaseURL, ""))
			list := dispatcher.New(reg).ListTools()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, t := range list.Tools {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw tools/list result")
	return cmd
}
