package main

import (
	"fmt"

	motoko "github.com/aretw0/motoko-mcp"
	"github.com/aretw0/motoko-mcp/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of motoko-mcp",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if tui.IsTerminal(out) {
				tui.PrintBanner(out, motoko.Name, motoko.Version)
				return
			}
			fmt.Fprintf(out, "%s version %s\n", motoko.Name, motoko.Version)
		},
	}
}
