package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/echosoil/echorepo-lite/internal/build"
)

var (
	fixKey string
	fixLat string
	fixLon string
)

var fixCoordsCmd = &cobra.Command{
	Use:   "fix-coords",
	Short: "Manually correct one sample's coordinates",
	Long:  "Updates the source CSV with the corrected coordinates and patches the published store so the fix is visible before the next full rebuild. Out-of-range values are accepted and flagged for review.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := build.FixCoordinates(ctx, buildConfig(false), fixKey, fixLat, fixLon)
		if err != nil {
			return eris.Wrap(err, "fix-coords")
		}

		fmt.Printf("Updated %d source row(s) and %d published row(s) for %s\n",
			res.SourceRows, res.StoreRows, res.NaturalKey)
		if res.OutOfRange {
			fmt.Println("Warning: coordinates are outside world bounds; flagged for review and not jittered.")
		}
		return nil
	},
}

func init() {
	fixCoordsCmd.Flags().StringVar(&fixKey, "key", "", "sample id or QR code (required)")
	fixCoordsCmd.Flags().StringVar(&fixLat, "lat", "", "corrected latitude (required)")
	fixCoordsCmd.Flags().StringVar(&fixLon, "lon", "", "corrected longitude (required)")
	_ = fixCoordsCmd.MarkFlagRequired("key")
	_ = fixCoordsCmd.MarkFlagRequired("lat")
	_ = fixCoordsCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(fixCoordsCmd)
}
