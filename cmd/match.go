package main

import (
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/export"
	"github.com/signalis/connector-cli/internal/ingest"
	"github.com/signalis/connector-cli/internal/match"
	"github.com/signalis/connector-cli/internal/model"
)

var matchFlags struct {
	mode string
	out  string
}

var matchCmd = &cobra.Command{
	Use:   "match <supply.csv> <demand.csv>",
	Short: "Filter a supply list to records that sell to the demand list",
	Long:  "Validates buyer-seller overlap between every supply record and the demand list for a connector mode, then writes the supply records that match at least one demand record.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		supply, _, err := ingest.LoadFile(args[0], model.SideSupply)
		if err != nil {
			return err
		}
		demand, _, err := ingest.LoadFile(args[1], model.SideDemand)
		if err != nil {
			return err
		}

		var kept []model.NormalizedRecord
		rejected := 0
		for i := range supply {
			ok := false
			for j := range demand {
				if valid, _ := match.ValidateMatch(&supply[i], &demand[j], matchFlags.mode); valid {
					ok = true
					break
				}
			}
			if ok {
				kept = append(kept, supply[i])
			} else {
				rejected++
			}
		}

		sort.SliceStable(kept, func(a, b int) bool { return kept[a].Company < kept[b].Company })

		zap.L().Info("match complete",
			zap.String("mode", matchFlags.mode),
			zap.Int("supply", len(supply)),
			zap.Int("demand", len(demand)),
			zap.Int("kept", len(kept)),
			zap.Int("rejected", rejected),
		)

		return export.WriteStandard(kept, matchFlags.out)
	},
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchFlags.mode, "mode", "custom", "connector mode (recruiting, biotech_licensing, wealth_management, real_estate_capital, logistics, crypto, enterprise_partnerships, custom)")
	f.StringVar(&matchFlags.out, "out", "matched_supply.csv", "output CSV path")
	rootCmd.AddCommand(matchCmd)
}
