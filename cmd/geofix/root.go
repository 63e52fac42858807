package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geofix",
		Short: "normalize and correct insured-location coordinates",
		Long: `
geofix reads a sheet of insured locations, parses the free-form coordinates,
checks each point against the boundary of its declared state and replaces the
ones that fall outside with a place-name lookup or the state centroid.

Settings come from the environment (and a .env file when present); flags on
"run" take precedence.
`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newParseCmd(), newRegionsCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
