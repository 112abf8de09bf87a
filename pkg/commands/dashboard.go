package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/config"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
)

func addDashboard(topLevel *cobra.Command) {
	incidentType := ""
	status := ""
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "list submitted reports from the server",
		Example: `
mangrove dashboard
mangrove dashboard --type illegal_cutting --status pending
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return oo.HandleError(err)
			}

			client := report.NewClient(cfg.ServerURL)
			reports, err := client.Reports(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			reports = report.Filter(reports, incidentType, status)

			if oo.JSON {
				b, err := json.Marshal(reports)
				if err != nil {
					return err
				}
				fmt.Fprintln(color.Output, string(b))
				return nil
			}
			report.PrettyPrintReports(reports...)
			return nil
		},
	}

	cmd.Flags().StringVarP(&incidentType, "type", "t", "", "Only show reports of this incident type.")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only show reports with this status.")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
