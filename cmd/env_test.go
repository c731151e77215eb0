package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/model"
)

func TestLoadOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	yaml := `
- component_class: Motor
  origin_country: Germany
  user_rate_pct: 25
- component_class: Housing
  origin_country: China
  default_rate_pct: 7.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	overrides, err := loadOverridesFile(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, "Motor", overrides[0].ComponentClass)
	require.NotNil(t, overrides[0].UserRatePct)
	assert.Equal(t, 25.0, *overrides[0].UserRatePct)
	assert.Nil(t, overrides[0].DefaultRatePct)

	require.NotNil(t, overrides[1].DefaultRatePct)
	assert.Equal(t, 7.5, *overrides[1].DefaultRatePct)
	assert.Nil(t, overrides[1].UserRatePct)
}

func TestLoadOverridesFileMissing(t *testing.T) {
	_, err := loadOverridesFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadOverridesFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0644))

	_, err := loadOverridesFile(path)
	require.Error(t, err)
}

func TestResolveOverridesFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	yaml := `
- component_class: Motor
  origin_country: Germany
  user_rate_pct: 12.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	overrides, err := resolveOverrides(context.Background(), "", path)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	require.NotNil(t, overrides[0].UserRatePct)
	assert.Equal(t, 12.5, *overrides[0].UserRatePct)

	// No file and no preset is a valid empty merge.
	overrides, err = resolveOverrides(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestParseScenarioDate(t *testing.T) {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	eng := engine.New(&model.Tables{
		TariffScenarios: []model.TariffScenario{{ScenarioDate: day, Description: "Baseline"}},
	})

	got, err := parseScenarioDate(eng, "2025-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), got)

	// Empty flag falls back to the workbook's first scenario.
	got, err = parseScenarioDate(eng, "")
	require.NoError(t, err)
	assert.Equal(t, day, got)

	_, err = parseScenarioDate(eng, "July 1st")
	require.Error(t, err)

	empty := engine.New(&model.Tables{})
	_, err = parseScenarioDate(empty, "")
	require.Error(t, err)
}

func TestWithDefaultRates(t *testing.T) {
	rate := 9.0
	eng := engine.New(&model.Tables{
		TariffInputs: []model.TariffOverride{
			{ComponentClass: "Motor", OriginCountry: "Germany", DefaultRatePct: &rate},
		},
	})

	user := 50.0
	merged := withDefaultRates(eng, []model.TariffOverride{
		{ComponentClass: "Motor", OriginCountry: "Germany", UserRatePct: &user},
	})

	// User rows come first so they shadow the workbook defaults.
	require.Len(t, merged, 2)
	assert.NotNil(t, merged[0].UserRatePct)
	assert.NotNil(t, merged[1].DefaultRatePct)
}
