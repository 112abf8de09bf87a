package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Build metadata, stamped by the release pipeline via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "yaml"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the mangrove client build information",
		Example: `
mangrove version
mangrove version --short
`,
		Run: func(_ *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Print(resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Only the version number, for scripts.")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Render as 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}
