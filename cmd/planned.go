package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/echosoil/echorepo-lite/internal/planned"
)

var plannedQR string

var plannedCmd = &cobra.Command{
	Use:   "planned",
	Short: "Inspect the planned-country index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		idx, err := planned.Load(cfg.Planned.Path)
		if err != nil {
			return eris.Wrap(err, "planned: load")
		}

		if plannedQR != "" {
			set := idx.Get(plannedQR)
			if len(set) == 0 {
				fmt.Printf("%s: no planned countries on file\n", plannedQR)
				return nil
			}
			codes := make([]string, 0, len(set))
			for cc := range set {
				codes = append(codes, cc)
			}
			sort.Strings(codes)
			fmt.Printf("%s: %s\n", plannedQR, strings.Join(codes, ", "))
			return nil
		}

		fmt.Printf("%d QR codes with planned countries (%s)\n", idx.Len(), cfg.Planned.Path)
		return nil
	},
}

func init() {
	plannedCmd.Flags().StringVar(&plannedQR, "qr", "", "show the planned set for one QR code")
	rootCmd.AddCommand(plannedCmd)
}
