package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/tariff-cli/internal/model"
)

func ptr(v float64) *float64 { return &v }

var scenarioDay = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func testSchedule() []model.USTariffEntry {
	return []model.USTariffEntry{
		{ScenarioDate: scenarioDay, ComponentClass: "motor", OriginCountry: "China", AdValoremTariffPct: 25},
		{ScenarioDate: scenarioDay, ComponentClass: "housing", OriginCountry: "Serbia", AdValoremTariffPct: math.NaN()},
	}
}

func TestResolveTariffRate_OverrideWins(t *testing.T) {
	t.Parallel()
	overrides := []model.TariffOverride{
		{ComponentClass: "motor", OriginCountry: "China", DefaultRatePct: ptr(5), UserRatePct: ptr(40)},
	}

	rate, source := ResolveTariffRate("motor", "China", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.40, rate, 1e-9)
	assert.Equal(t, SourceOverride, source)
}

func TestResolveTariffRate_ScenarioFallback(t *testing.T) {
	t.Parallel()

	// No user rate on the override row: the dated scenario entry applies.
	overrides := []model.TariffOverride{
		{ComponentClass: "motor", OriginCountry: "China", DefaultRatePct: ptr(5)},
	}

	rate, source := ResolveTariffRate("motor", "China", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.25, rate, 1e-9)
	assert.Equal(t, "Scenario 2025-07-01", source)
}

func TestResolveTariffRate_DefaultFallback(t *testing.T) {
	t.Parallel()

	// No scenario entry for this key and no user rate: the override row's
	// default applies.
	overrides := []model.TariffOverride{
		{ComponentClass: "motor", OriginCountry: "Mexico", DefaultRatePct: ptr(5)},
	}

	rate, source := ResolveTariffRate("motor", "Mexico", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.05, rate, 1e-9)
	assert.Equal(t, SourceDefault, source)
}

func TestResolveTariffRate_None(t *testing.T) {
	t.Parallel()
	rate, source := ResolveTariffRate("motor", "Mexico", scenarioDay, nil, testSchedule())
	assert.Zero(t, rate)
	assert.Equal(t, SourceNone, source)
}

func TestResolveTariffRate_NaNUserRateFallsThrough(t *testing.T) {
	t.Parallel()
	overrides := []model.TariffOverride{
		{ComponentClass: "motor", OriginCountry: "China", DefaultRatePct: ptr(5), UserRatePct: ptr(math.NaN())},
	}

	rate, source := ResolveTariffRate("motor", "China", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.25, rate, 1e-9)
	assert.Equal(t, "Scenario 2025-07-01", source)
}

func TestResolveTariffRate_NaNScenarioRateFallsThrough(t *testing.T) {
	t.Parallel()
	overrides := []model.TariffOverride{
		{ComponentClass: "housing", OriginCountry: "Serbia", DefaultRatePct: ptr(8)},
	}

	rate, source := ResolveTariffRate("housing", "Serbia", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.08, rate, 1e-9)
	assert.Equal(t, SourceDefault, source)
}

func TestResolveTariffRate_DateMismatch(t *testing.T) {
	t.Parallel()
	otherDay := scenarioDay.AddDate(0, 1, 0)

	rate, source := ResolveTariffRate("motor", "China", otherDay, nil, testSchedule())
	assert.Zero(t, rate)
	assert.Equal(t, SourceNone, source)
}

func TestResolveTariffRate_ZeroDatesNeverMatch(t *testing.T) {
	t.Parallel()

	// An unparseable workbook date loads as the zero time. Two zero dates
	// must not count as the same day, so a request without a scenario date
	// cannot pick up a schedule row whose date failed to parse.
	schedule := []model.USTariffEntry{
		{ComponentClass: "motor", OriginCountry: "China", AdValoremTariffPct: 25},
	}

	rate, source := ResolveTariffRate("motor", "China", time.Time{}, nil, schedule)
	assert.Zero(t, rate)
	assert.Equal(t, SourceNone, source)
}

func TestResolveTariffRate_FirstOverrideRowWins(t *testing.T) {
	t.Parallel()
	overrides := []model.TariffOverride{
		{ComponentClass: "motor", OriginCountry: "China", UserRatePct: ptr(10)},
		{ComponentClass: "motor", OriginCountry: "China", UserRatePct: ptr(99)},
	}

	rate, source := ResolveTariffRate("motor", "China", scenarioDay, overrides, testSchedule())
	assert.InDelta(t, 0.10, rate, 1e-9)
	assert.Equal(t, SourceOverride, source)
}
