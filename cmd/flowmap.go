package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/geo"
)

var (
	flowmapScenario  string
	flowmapSite      string
	flowmapOverrides string
	flowmapPreset    string
	flowmapFixedFees bool
	flowmapAllSites  bool
	flowmapOut       string
)

var flowmapCmd = &cobra.Command{
	Use:   "flowmap",
	Short: "Render the sourcing flow map as GeoJSON",
	Long:  "Computes the cost flows for one assembly site (or all of them) and writes a GeoJSON FeatureCollection of flow lines and site points.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine()
		if err != nil {
			return err
		}

		date, err := parseScenarioDate(eng, flowmapScenario)
		if err != nil {
			return err
		}

		overrides, err := resolveOverrides(ctx, flowmapPreset, flowmapOverrides)
		if err != nil {
			return err
		}

		in := engine.Input{
			ScenarioDate:     date,
			Overrides:        withDefaultRates(eng, overrides),
			IncludeFixedFees: flowmapFixedFees || cfg.Compute.IncludeFixedFees,
		}

		var results []*engine.Result
		if flowmapAllSites {
			results, err = eng.CompareSites(ctx, in)
			if err != nil {
				return err
			}
		} else {
			in.AssemblySiteID = flowmapSite
			if in.AssemblySiteID == "" {
				in.AssemblySiteID = cfg.Compute.AssemblySite
			}
			res, err := eng.Compute(in)
			if err != nil {
				return err
			}
			results = []*engine.Result{res}
		}

		fc, err := geo.FlowMap(results, eng.Tables().MapNodes)
		if err != nil {
			return err
		}

		out := os.Stdout
		if flowmapOut != "" {
			f, err := os.Create(flowmapOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", flowmapOut)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fc); err != nil {
			return eris.Wrap(err, "encode geojson")
		}

		if flowmapOut != "" {
			zap.L().Info("flow map written",
				zap.String("path", flowmapOut),
				zap.Int("features", len(fc.Features)),
			)
		}
		return nil
	},
}

func init() {
	flowmapCmd.Flags().StringVar(&flowmapScenario, "scenario", "", "scenario date YYYY-MM-DD (default: first in workbook)")
	flowmapCmd.Flags().StringVar(&flowmapSite, "site", "", "assembly site ID (default from config)")
	flowmapCmd.Flags().StringVar(&flowmapOverrides, "overrides", "", "YAML file of tariff override rows")
	flowmapCmd.Flags().StringVar(&flowmapPreset, "preset", "", "name of a stored override preset")
	flowmapCmd.Flags().BoolVar(&flowmapFixedFees, "include-fixed-fees", false, "amortize fixed per-shipment fees into unit cost")
	flowmapCmd.Flags().BoolVar(&flowmapAllSites, "all-sites", false, "include flows for every assembly site")
	flowmapCmd.Flags().StringVarP(&flowmapOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(flowmapCmd)
}
