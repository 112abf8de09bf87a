package commands

import (
	"github.com/spf13/cobra"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/config"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/draft"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/geo"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/logging"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/app"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/theme"
)

const draftKey = "report"

func addReport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "open the interactive incident report form",
		Example: `
mangrove report
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.LogPath)
			if err != nil {
				log = logging.Nop()
			}
			defer log.Sync()

			store, err := draft.Open(cfg.StorePath, log)
			if err != nil {
				return err
			}

			var provider geo.Provider
			switch {
			case cfg.LocatorURL != "":
				provider = geo.NewHTTPProvider(cfg.LocatorURL)
			case cfg.StaticPosition:
				provider = geo.StaticProvider{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
			}

			return app.Run(app.Options{
				Theme:     theme.Default(),
				Store:     store,
				DraftKey:  draftKey,
				Saver:     draft.NewAutosaver(store, draftKey, draft.DefaultQuietWindow, log),
				Capturer:  geo.NewCapturer(provider, geo.DefaultOptions(), log),
				Submitter: report.NewHTTPSubmitter(cfg.ServerURL, log),
				Log:       log,
			})
		},
	}

	topLevel.AddCommand(cmd)
}
