package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/echosoil/echorepo-lite/internal/model"
	"github.com/echosoil/echorepo-lite/internal/store"
	"github.com/echosoil/echorepo-lite/internal/validate"
)

var sentinelsOut string

var sentinelsCmd = &cobra.Command{
	Use:   "sentinels",
	Short: "List rows carrying the default sentinel coordinates",
	Long:  "Finds published rows whose coordinates exactly equal the configured placeholder pair, meaning GPS was never actually captured.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := store.Open(cfg.Store.Path, cfg.Store.Table)
		if err != nil {
			return eris.Wrap(err, "sentinels: open store")
		}
		defer s.Close() //nolint:errcheck

		t, err := s.Samples(ctx)
		if err != nil {
			return eris.Wrap(err, "sentinels: read samples")
		}

		hits, err := validate.FindSentinelRows(t, validateOptions())
		if err != nil {
			return eris.Wrap(err, "sentinels")
		}

		out := model.NewTable(t.Columns)
		for _, i := range hits {
			row := make([]string, len(t.Columns))
			for j := range t.Columns {
				row[j] = t.Value(i, j)
			}
			out.AppendRow(row)
		}

		if err := writeCSV(sentinelsOut, out.Columns, out.Rows); err != nil {
			return eris.Wrap(err, "sentinels: write report")
		}
		fmt.Printf("%d sentinel rows of %d\n", len(hits), t.Len())
		return nil
	},
}

func init() {
	sentinelsCmd.Flags().StringVar(&sentinelsOut, "out", "", "write matching rows here instead of stdout")
	rootCmd.AddCommand(sentinelsCmd)
}
