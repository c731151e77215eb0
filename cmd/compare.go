package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sells-group/tariff-cli/internal/engine"
)

var (
	compareScenario  string
	compareOverrides string
	comparePreset    string
	compareFixedFees bool
	compareFormat    string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compute landed cost across every assembly site",
	Long:  "Runs the computation once per assembly site offered in the workbook and reports the results side by side, cheapest site first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine()
		if err != nil {
			return err
		}

		date, err := parseScenarioDate(eng, compareScenario)
		if err != nil {
			return err
		}

		overrides, err := resolveOverrides(ctx, comparePreset, compareOverrides)
		if err != nil {
			return err
		}

		results, err := eng.CompareSites(ctx, engine.Input{
			ScenarioDate:     date,
			Overrides:        withDefaultRates(eng, overrides),
			IncludeFixedFees: compareFixedFees || cfg.Compute.IncludeFixedFees,
		})
		if err != nil {
			return err
		}

		// Cheapest total landed cost first.
		sort.SliceStable(results, func(i, j int) bool {
			return totalLanded(results[i]) < totalLanded(results[j])
		})

		if compareFormat != "table" {
			return writeOutput(os.Stdout, results, compareFormat)
		}
		formatSummary(os.Stdout, results)
		return nil
	},
}

func totalLanded(res *engine.Result) float64 {
	var total float64
	for _, row := range res.Summary {
		total += row.LandedCost
	}
	return total
}

func init() {
	compareCmd.Flags().StringVar(&compareScenario, "scenario", "", "scenario date YYYY-MM-DD (default: first in workbook)")
	compareCmd.Flags().StringVar(&compareOverrides, "overrides", "", "YAML file of tariff override rows")
	compareCmd.Flags().StringVar(&comparePreset, "preset", "", "name of a stored override preset")
	compareCmd.Flags().BoolVar(&compareFixedFees, "include-fixed-fees", false, "amortize fixed per-shipment fees into unit cost")
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "output format: table, json, yaml")
	rootCmd.AddCommand(compareCmd)
}
