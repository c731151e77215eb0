package engine

import (
	"math"

	"github.com/sells-group/tariff-cli/internal/model"
)

// ReportingCurrency is the single currency all outputs are normalized to.
const ReportingCurrency = "CHF"

// countryCurrency maps origin countries to their local currency. Countries
// absent from the map price in USD.
var countryCurrency = map[string]string{
	"Switzerland":   "CHF",
	"China":         "CNY",
	"Serbia":        "RSD",
	"United States": "USD",
	"Mexico":        "MXN",
	"Germany":       "EUR",
}

// FXTable indexes USD-per-unit rates by currency code. Lookups never fail:
// an absent code behaves as a pass-through rate of 1.0.
type FXTable map[string]float64

// NewFXTable builds an FXTable from loaded FX rows.
func NewFXTable(rows []model.FXRate) FXTable {
	t := make(FXTable, len(rows))
	for _, r := range rows {
		t[r.Currency] = r.USDPerUnit
	}
	return t
}

// rate returns the USD-per-unit rate for a currency, or fallback when the
// code is absent.
func (t FXTable) rate(currency string, fallback float64) float64 {
	if r, ok := t[currency]; ok {
		return r
	}
	return fallback
}

// USDToReporting converts a USD amount to the reporting currency. A NaN
// amount converts to 0 so sparse source data stays total-safe, and an
// explicit zero reporting rate yields 0 rather than a division error.
func (t FXTable) USDToReporting(amountUSD float64) float64 {
	if math.IsNaN(amountUSD) {
		return 0
	}
	usdPerReporting := t.rate(ReportingCurrency, 1.0)
	if usdPerReporting == 0 {
		return 0
	}
	return amountUSD / usdPerReporting
}

// LocalToReporting converts an amount in a local currency to the reporting
// currency through the USD intermediate.
func (t FXTable) LocalToReporting(amount float64, currency string) float64 {
	if math.IsNaN(amount) {
		return 0
	}
	usdPerUnit := t.rate(currency, t.rate("USD", 1.0))
	return t.USDToReporting(amount * usdPerUnit)
}
