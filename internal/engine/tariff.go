package engine

import (
	"math"
	"time"

	"github.com/sells-group/tariff-cli/internal/model"
)

// FinalAssemblyClass is the sentinel component class used when resolving
// the tariff on a finished good re-entering the United States.
const FinalAssemblyClass = "FinalAssembly"

// Provenance labels attached to resolved tariff rates.
const (
	SourceOverride  = "Override"
	SourceDefault   = "Default"
	SourceNone      = "None"
	SourceOutsideUS = "Outside US"
	SourceDomestic  = "Domestic"
)

// ResolveTariffRate returns the ad-valorem tariff rate (as a fraction in
// [0,1]) for a component class and origin country, together with a label
// naming the rule that produced it. Precedence, first match wins:
// user override, dated scenario entry, override-row default, none.
func ResolveTariffRate(componentClass, originCountry string, scenarioDate time.Time, overrides []model.TariffOverride, schedule []model.USTariffEntry) (float64, string) {
	override := findOverride(componentClass, originCountry, overrides)

	if override != nil && override.UserRatePct != nil && !math.IsNaN(*override.UserRatePct) {
		return *override.UserRatePct / 100, SourceOverride
	}

	for _, e := range schedule {
		if !sameDay(e.ScenarioDate, scenarioDate) || e.ComponentClass != componentClass || e.OriginCountry != originCountry {
			continue
		}
		if !math.IsNaN(e.AdValoremTariffPct) {
			return e.AdValoremTariffPct / 100, "Scenario " + scenarioDate.Format("2006-01-02")
		}
		break
	}

	if override != nil && override.DefaultRatePct != nil && !math.IsNaN(*override.DefaultRatePct) {
		return *override.DefaultRatePct / 100, SourceDefault
	}

	return 0, SourceNone
}

// findOverride returns the first override row keyed by (class, origin). The
// same row supplies both the user rate and the default fallback.
func findOverride(componentClass, originCountry string, overrides []model.TariffOverride) *model.TariffOverride {
	for i := range overrides {
		if overrides[i].ComponentClass == componentClass && overrides[i].OriginCountry == originCountry {
			return &overrides[i]
		}
	}
	return nil
}

// sameDay reports whether two dates fall on the same calendar day. The zero
// time marks an unparseable or absent date and matches nothing, not even
// another zero time.
func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
