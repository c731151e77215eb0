package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage stored override presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		presets, err := st.ListPresets(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tROWS\tUPDATED")
		_, _ = fmt.Fprintln(w, "----\t----\t-------")
		for _, p := range presets {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", p.Name, len(p.Overrides), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		_ = w.Flush()
		return nil
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a preset's override rows as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.GetPreset(ctx, args[0])
		if err != nil {
			return err
		}
		return writeOutput(os.Stdout, p.Overrides, "yaml")
	},
}

var presetsSaveFile string

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save override rows from a YAML file under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		overrides, err := loadOverridesFile(presetsSaveFile)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.SavePreset(ctx, args[0], overrides)
		if err != nil {
			return err
		}

		zap.L().Info("preset saved",
			zap.String("name", p.Name),
			zap.Int("rows", len(p.Overrides)),
		)
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeletePreset(ctx, args[0]); err != nil {
			return err
		}
		zap.L().Info("preset deleted", zap.String("name", args[0]))
		return nil
	},
}

func init() {
	presetsSaveCmd.Flags().StringVar(&presetsSaveFile, "file", "", "YAML file of tariff override rows")
	_ = presetsSaveCmd.MarkFlagRequired("file")

	presetsCmd.AddCommand(presetsListCmd, presetsShowCmd, presetsSaveCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}
