package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/planned"
	"github.com/echosoil/echorepo-lite/internal/resolve"
	"github.com/echosoil/echorepo-lite/internal/store"
	"github.com/echosoil/echorepo-lite/internal/validate"
)

var (
	validateOut            string
	validateMismatchesOnly bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Annotate published rows with country-mismatch results",
	Long:  "Resolves each published sample's country through reverse geocoding and compares it against the contributor's declared travel plan. Sentinel-coordinate rows are reported as their own category.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := store.Open(cfg.Store.Path, cfg.Store.Table)
		if err != nil {
			return eris.Wrap(err, "validate: open store")
		}
		defer s.Close() //nolint:errcheck

		t, err := s.Samples(ctx)
		if err != nil {
			return eris.Wrap(err, "validate: read samples")
		}

		idx, err := planned.Load(cfg.Planned.Path)
		if err != nil {
			return eris.Wrap(err, "validate: load planned countries")
		}

		resolver := resolve.NewHTTPResolver(nil, cfg.Resolver.BaseURL, cfg.Resolver.RatePerSec)
		annotations, err := validate.Annotate(ctx, t, idx, resolver, validateOptions())
		if err != nil {
			return eris.Wrap(err, "validate")
		}

		mismatches := validate.ConfirmedMismatches(annotations)
		zap.L().Info("validation complete",
			zap.Int("rows", len(annotations)),
			zap.Int("confirmed_mismatches", len(mismatches)),
			zap.Int("planned_qrs", idx.Len()),
		)

		report := annotations
		if validateMismatchesOnly {
			report = mismatches
		}

		header := []string{"row", "natural_key", "qr_code", "actual_country", "planned_countries", "planned_match", "is_default_sentinel"}
		rows := make([][]string, 0, len(report))
		for _, a := range report {
			rows = append(rows, []string{
				strconv.Itoa(a.Row),
				a.NaturalKey,
				a.QRCode,
				a.ActualCountry,
				strings.Join(a.PlannedList(), ","),
				strconv.FormatBool(a.PlannedMatch),
				strconv.FormatBool(a.IsDefaultSentinel),
			})
		}
		if err := writeCSV(validateOut, header, rows); err != nil {
			return eris.Wrap(err, "validate: write report")
		}

		fmt.Printf("%d rows annotated, %d confirmed mismatches\n", len(annotations), len(mismatches))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateOut, "out", "", "write the report CSV here instead of stdout")
	validateCmd.Flags().BoolVar(&validateMismatchesOnly, "mismatches-only", false, "report only confirmed mismatches")
	rootCmd.AddCommand(validateCmd)
}
