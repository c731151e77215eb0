package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the workbook's tariff scenarios and assembly sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		tables := eng.Tables()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "SCENARIO\tDESCRIPTION")
		_, _ = fmt.Fprintln(w, "--------\t-----------")
		for _, sc := range tables.TariffScenarios {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", sc.ScenarioDate.Format("2006-01-02"), sc.Description)
		}
		_ = w.Flush()

		fmt.Println()
		fmt.Println("Assembly sites:")
		for _, id := range eng.AssemblySiteIDs() {
			fmt.Printf("  %s\n", id)
		}

		if len(tables.TariffInputs) > 0 {
			fmt.Println()
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CLASS\tORIGIN\tDEFAULT%\tUSER%")
			_, _ = fmt.Fprintln(w, "-----\t------\t--------\t-----")
			for _, o := range tables.TariffInputs {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					o.ComponentClass, o.OriginCountry, pct(o.DefaultRatePct), pct(o.UserRatePct))
			}
			_ = w.Flush()
		}
		return nil
	},
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
