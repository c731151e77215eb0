package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/model"
	"github.com/sells-group/tariff-cli/internal/store"
	"github.com/sells-group/tariff-cli/internal/workbook"
)

// loadEngine reads the configured workbook and builds the cost engine.
func loadEngine() (*engine.Engine, error) {
	if err := cfg.Validate("compute"); err != nil {
		return nil, err
	}

	tables, err := workbook.Load(cfg.Workbook.Path)
	if err != nil {
		return nil, err
	}

	zap.L().Info("workbook loaded",
		zap.String("path", cfg.Workbook.Path),
		zap.Int("products", len(tables.Products)),
		zap.Int("scenarios", len(tables.TariffScenarios)),
	)

	return engine.New(tables), nil
}

// initStore opens the preset store chosen by configuration and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("presets"); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// parseScenarioDate parses a --scenario flag value, defaulting to the first
// scenario in the workbook when the flag is empty.
func parseScenarioDate(eng *engine.Engine, value string) (time.Time, error) {
	if value == "" {
		if scenarios := eng.Tables().TariffScenarios; len(scenarios) > 0 {
			return scenarios[0].ScenarioDate, nil
		}
		return time.Time{}, eris.New("no scenario date given and workbook has no scenarios")
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse scenario date %q", value)
	}
	return d, nil
}

// loadOverridesFile reads override rows from a YAML file.
func loadOverridesFile(path string) ([]model.TariffOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read overrides file %s", path)
	}
	var overrides []model.TariffOverride
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "parse overrides file %s", path)
	}
	return overrides, nil
}

// withDefaultRates appends the workbook's TariffInputs rows after the user's
// rows. Resolution is first-match-wins, so user rows shadow the defaults
// while the DefaultRate_pct fallback tier stays reachable.
func withDefaultRates(eng *engine.Engine, overrides []model.TariffOverride) []model.TariffOverride {
	return append(overrides, eng.Tables().TariffInputs...)
}

// resolveOverrides merges a file of override rows with a stored preset (if
// named). The first matching row wins during resolution, so file rows go
// first and ad hoc edits beat the preset.
func resolveOverrides(ctx context.Context, presetName, filePath string) ([]model.TariffOverride, error) {
	var overrides []model.TariffOverride

	if filePath != "" {
		fromFile, err := loadOverridesFile(filePath)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, fromFile...)
	}

	if presetName != "" {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		p, err := st.GetPreset(ctx, presetName)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, p.Overrides...)
	}

	return overrides, nil
}
