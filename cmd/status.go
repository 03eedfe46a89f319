package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/echosoil/echorepo-lite/internal/signature"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the current build signature against the published one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bc := buildConfig(false)

		current, err := signature.Compute(bc.SourcePath, signature.Config{
			Version:       signature.Version,
			RadiusMeters:  bc.RadiusMeters,
			KeepOriginals: bc.KeepOriginals,
			PreferredLat:  bc.PreferredLat,
			PreferredLon:  bc.PreferredLon,
			Salt:          bc.Salt,
			Table:         bc.Table,
		})
		if err != nil {
			return eris.Wrap(err, "status")
		}

		stored, err := signature.Load(bc.SigPath())
		if err != nil {
			return eris.Wrap(err, "status")
		}

		fmt.Printf("current:   %s\n", current)
		if stored == "" {
			fmt.Println("published: (none)")
		} else {
			fmt.Printf("published: %s\n", stored)
		}
		if current == stored {
			fmt.Println("store is up to date")
		} else {
			fmt.Println("rebuild needed")
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(statusCmd) }
