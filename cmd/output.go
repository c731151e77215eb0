package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tariff-cli/internal/engine"
)

// money formats reporting-currency figures with thousands separators.
var money = message.NewPrinter(language.English)

// writeOutput marshals v to out in the requested format.
func writeOutput(out io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		_, err = out.Write(data)
		return eris.Wrap(err, "write yaml")
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

// formatSummary writes the per-SKU cost breakdown as a table.
func formatSummary(out io.Writer, results []*engine.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SITE\tSKU\tMATERIAL\tINBOUND\tOUTBOUND\tTARIFFS\tCONVERSION\tLANDED\tMARGIN%\tLEAD_DAYS")
	_, _ = fmt.Fprintln(w, "----\t---\t--------\t-------\t--------\t-------\t----------\t------\t-------\t---------")

	for _, res := range results {
		for _, row := range res.Summary {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.1f\t%.0f\n",
				row.AssemblySiteID,
				row.SKUDisplay,
				chf(row.MaterialCost),
				chf(row.InboundLogistics),
				chf(row.OutboundLogistics),
				chf(row.Tariffs),
				chf(row.ConversionCost),
				chf(row.LandedCost),
				row.MarginPct,
				row.LeadTimeDays,
			)
		}
	}
	_ = w.Flush()
}

// formatFlows writes the aggregated flow edges as a table.
func formatFlows(out io.Writer, res *engine.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SKU\tCOMPONENT\tFROM\tTO\tRATE%\tSOURCE\tVALUE\tSHARE")
	_, _ = fmt.Fprintln(w, "---\t---------\t----\t--\t-----\t------\t-----\t-----")

	for _, e := range res.Flows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\t%s\t%.1f%%\n",
			e.SKU,
			e.Component,
			e.FromSite,
			e.ToSite,
			e.TariffRate*100,
			e.TariffSource,
			chf(e.CostValue),
			e.CostShare*100,
		)
	}
	_ = w.Flush()
}

func chf(v float64) string {
	return money.Sprintf("%.2f", v)
}
