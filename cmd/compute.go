package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tariff-cli/internal/engine"
)

var (
	computeScenario  string
	computeSite      string
	computeOverrides string
	computePreset    string
	computeFixedFees bool
	computeFormat    string
	computeShowFlows bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute landed cost for one assembly site",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine()
		if err != nil {
			return err
		}

		date, err := parseScenarioDate(eng, computeScenario)
		if err != nil {
			return err
		}

		overrides, err := resolveOverrides(ctx, computePreset, computeOverrides)
		if err != nil {
			return err
		}

		site := computeSite
		if site == "" {
			site = cfg.Compute.AssemblySite
		}

		res, err := eng.Compute(engine.Input{
			ScenarioDate:     date,
			AssemblySiteID:   site,
			Overrides:        withDefaultRates(eng, overrides),
			IncludeFixedFees: computeFixedFees || cfg.Compute.IncludeFixedFees,
		})
		if err != nil {
			return err
		}

		zap.L().Info("computation complete",
			zap.String("site", site),
			zap.Time("scenario", date),
			zap.Int("skus", len(res.Summary)),
		)

		if computeFormat != "table" {
			return writeOutput(os.Stdout, res, computeFormat)
		}

		formatSummary(os.Stdout, []*engine.Result{res})
		if computeShowFlows {
			formatFlows(os.Stdout, res)
		}
		return nil
	},
}

func init() {
	computeCmd.Flags().StringVar(&computeScenario, "scenario", "", "scenario date YYYY-MM-DD (default: first in workbook)")
	computeCmd.Flags().StringVar(&computeSite, "site", "", "assembly site ID (default from config)")
	computeCmd.Flags().StringVar(&computeOverrides, "overrides", "", "YAML file of tariff override rows")
	computeCmd.Flags().StringVar(&computePreset, "preset", "", "name of a stored override preset")
	computeCmd.Flags().BoolVar(&computeFixedFees, "include-fixed-fees", false, "amortize fixed per-shipment fees into unit cost")
	computeCmd.Flags().StringVar(&computeFormat, "format", "table", "output format: table, json, yaml")
	computeCmd.Flags().BoolVar(&computeShowFlows, "flows", false, "also print the aggregated flow edges")
	rootCmd.AddCommand(computeCmd)
}
