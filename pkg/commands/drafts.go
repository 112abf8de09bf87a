package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/config"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/draft"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/logging"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
)

func addDrafts(topLevel *cobra.Command) {
	watch := false
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "list locally saved report drafts",
		Example: `
mangrove drafts
mangrove drafts --watch
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, log, err := openStore()
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := printDrafts(store); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events, err := store.Watch(ctx)
			if err != nil {
				return err
			}
			for range events {
				if err := printDrafts(store); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and reprint on draft changes.")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "discard the saved report draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, log, err := openStore()
			if err != nil {
				return err
			}
			defer log.Sync()
			store.Clear(draftKey)
			fmt.Fprintln(color.Output, "Draft discarded.")
			return nil
		},
	}
	cmd.AddCommand(clear)

	show := &cobra.Command{
		Use:   "show",
		Short: "print the saved report draft field by field",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, log, err := openStore()
			if err != nil {
				return err
			}
			defer log.Sync()
			rec, ok := store.Load(draftKey)
			if !ok || len(rec) == 0 {
				fmt.Fprintln(color.Output, "No saved draft.")
				return nil
			}
			report.PrettyPrintReceipt(report.Fields(rec))
			return nil
		},
	}
	cmd.AddCommand(show)

	topLevel.AddCommand(cmd)
}

func openStore() (*draft.Store, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogPath)
	if err != nil {
		log = logging.Nop()
	}
	store, err := draft.Open(cfg.StorePath, log)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}

func printDrafts(store *draft.Store) error {
	keys := store.Keys(context.Background())
	if len(keys) == 0 {
		fmt.Fprintln(color.Output, "No saved drafts.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DRAFT", "TITLE", "TYPE", "FIELDS")
	for _, key := range keys {
		rec, ok := store.Load(key)
		if !ok {
			continue
		}
		tbl.AddRow(key, rec[report.FieldTitle], rec[report.FieldIncidentType], fmt.Sprintf("%d", len(rec)))
	}
	fmt.Fprintln(color.Output, tbl)
	return nil
}
