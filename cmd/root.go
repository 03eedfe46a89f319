package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "echorepo",
	Short: "Soil sample republishing pipeline",
	Long:  "Rebuilds the public sample store with privacy-preserving coordinate jitter, preserves lab enrichment across rebuilds, and validates resolved countries against declared travel plans.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
