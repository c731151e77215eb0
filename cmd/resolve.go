package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/tariff-cli/internal/engine"
)

var (
	resolveScenario      string
	resolveClass         string
	resolveOrigin        string
	resolveOverridesFile string
	resolvePreset        string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show which tariff rate applies to a component class and origin",
	Long:  "Resolves the effective ad-valorem rate for one (component class, origin country) pair under a scenario date, reporting where the rate came from: a user override, the dated scenario schedule, a default rate, or nothing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}

		date, err := parseScenarioDate(eng, resolveScenario)
		if err != nil {
			return err
		}

		overrides, err := resolveOverrides(cmd.Context(), resolvePreset, resolveOverridesFile)
		if err != nil {
			return err
		}
		rate, source := engine.ResolveTariffRate(resolveClass, resolveOrigin, date,
			withDefaultRates(eng, overrides), eng.Tables().TariffsUS)

		fmt.Printf("%s from %s on %s: %.2f%% (%s)\n",
			resolveClass, resolveOrigin, date.Format("2006-01-02"), rate*100, source)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveScenario, "scenario", "", "scenario date YYYY-MM-DD (default: first in workbook)")
	resolveCmd.Flags().StringVar(&resolveClass, "class", "", "component class, e.g. Motor")
	resolveCmd.Flags().StringVar(&resolveOrigin, "origin", "", "origin country, e.g. Germany")
	resolveCmd.Flags().StringVar(&resolveOverridesFile, "overrides", "", "YAML file of tariff override rows")
	resolveCmd.Flags().StringVar(&resolvePreset, "preset", "", "name of a stored override preset")
	_ = resolveCmd.MarkFlagRequired("class")
	_ = resolveCmd.MarkFlagRequired("origin")
	rootCmd.AddCommand(resolveCmd)
}
