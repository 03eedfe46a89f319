package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/echosoil/echorepo-lite/internal/export"
	"github.com/echosoil/echorepo-lite/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the published store as GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := store.Open(cfg.Store.Path, cfg.Store.Table)
		if err != nil {
			return eris.Wrap(err, "export: open store")
		}
		defer s.Close() //nolint:errcheck

		t, err := s.Samples(ctx)
		if err != nil {
			return eris.Wrap(err, "export: read samples")
		}

		b, err := export.GeoJSON(t, export.Options{
			PreferredLat: cfg.Columns.Lat,
			PreferredLon: cfg.Columns.Lon,
		})
		if err != nil {
			return eris.Wrap(err, "export")
		}

		if exportOut == "" {
			fmt.Println(string(b))
			return nil
		}
		if err := os.WriteFile(exportOut, b, 0o644); err != nil {
			return eris.Wrapf(err, "export: write %s", exportOut)
		}
		fmt.Printf("Wrote %s (%d rows considered)\n", exportOut, t.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write GeoJSON here instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
