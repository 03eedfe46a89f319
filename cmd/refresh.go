package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/build"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the published store from the source CSV",
	Long:  "Sanitizes and jitters coordinates, rebuilds the sqlite store at a temp path, preserves enrichment rows, and publishes atomically. Skips the rebuild when source and config are unchanged.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := build.Build(ctx, buildConfig(refreshForce))
		if err != nil {
			return eris.Wrap(err, "refresh")
		}

		if res.Skipped {
			fmt.Println("No changes detected (signature match); store kept as-is.")
			return nil
		}

		zap.L().Info("refresh complete",
			zap.String("build_id", res.BuildID),
			zap.Int("rows", res.Rows),
			zap.Int("jittered", res.Jittered),
			zap.Int("parse_failures", res.ParseFailures),
			zap.Int("enrichment_restored", res.Enrichment),
		)
		fmt.Printf("Published %d rows (%d jittered, %d unparseable) to %s\n",
			res.Rows, res.Jittered, res.ParseFailures, cfg.Store.Path)
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "rebuild even when the signature matches")
	rootCmd.AddCommand(refreshCmd)
}
