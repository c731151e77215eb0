package engine

import (
	"time"

	"github.com/sells-group/tariff-cli/internal/model"
)

// Input selects one computation point: a tariff scenario date, an assembly
// site, the user's override rows, and whether fixed per-shipment logistics
// fees are charged. Overrides are passed by value on every call and are
// never merged into the reference tables.
type Input struct {
	ScenarioDate     time.Time              `json:"scenario_date"`
	AssemblySiteID   string                 `json:"assembly_site_id"`
	Overrides        []model.TariffOverride `json:"overrides,omitempty"`
	IncludeFixedFees bool                   `json:"include_fixed_fees"`
}

// SummaryRow is the per-SKU landed-cost breakdown for one (scenario,
// assembly site) pair. All monetary figures are in the reporting currency.
type SummaryRow struct {
	ScenarioDate      time.Time `json:"scenario_date" yaml:"scenario_date"`
	AssemblySiteID    string    `json:"assembly_site_id" yaml:"assembly_site_id"`
	SKU               string    `json:"sku" yaml:"sku"`
	SKUDisplay        string    `json:"sku_display" yaml:"sku_display"`
	MaterialCost      float64   `json:"material_cost_chf" yaml:"material_cost_chf"`
	InboundLogistics  float64   `json:"inbound_logistics_chf" yaml:"inbound_logistics_chf"`
	OutboundLogistics float64   `json:"outbound_logistics_chf" yaml:"outbound_logistics_chf"`
	Tariffs           float64   `json:"tariffs_chf" yaml:"tariffs_chf"`
	ConversionCost    float64   `json:"conversion_cost_chf" yaml:"conversion_cost_chf"`
	LandedCost        float64   `json:"landed_cost_chf" yaml:"landed_cost_chf"`
	ListPrice         float64   `json:"list_price_chf" yaml:"list_price_chf"`
	Margin            float64   `json:"margin_chf" yaml:"margin_chf"`
	MarginPct         float64   `json:"margin_pct" yaml:"margin_pct"`
	LeadTimeDays      float64   `json:"lead_time_days" yaml:"lead_time_days"`
}

// FlowEdge is one leg of the cost journey: component origin to assembly
// site, or assembly site to the US customer sentinel. Edges are ordered by
// emission sequence (component edges in BOM order, then one finished-good
// edge per SKU).
type FlowEdge struct {
	SKU          string  `json:"sku" yaml:"sku"`
	Component    string  `json:"component" yaml:"component"`
	FromSite     string  `json:"from_site" yaml:"from_site"`
	ToSite       string  `json:"to_site" yaml:"to_site"`
	FromCountry  string  `json:"from_country" yaml:"from_country"`
	ToCountry    string  `json:"to_country" yaml:"to_country"`
	FromRole     string  `json:"from_role" yaml:"from_role"`
	ToRole       string  `json:"to_role" yaml:"to_role"`
	TariffRate   float64 `json:"tariff_rate" yaml:"tariff_rate"`
	TariffSource string  `json:"tariff_source" yaml:"tariff_source"`
	CostValue    float64 `json:"cost_value" yaml:"cost_value"`
	CostShare    float64 `json:"cost_share" yaml:"cost_share"`
}

// AssemblyMeta describes the assembly site a Result was computed for.
type AssemblyMeta struct {
	SiteID  string `json:"site_id" yaml:"site_id"`
	Country string `json:"country" yaml:"country"`
	Role    string `json:"role" yaml:"role"`
}

// Result is the full output of one engine invocation. An empty Summary is
// valid: it means no target product can be assembled at the chosen site.
type Result struct {
	Summary  []SummaryRow `json:"summary" yaml:"summary"`
	Flows    []FlowEdge   `json:"flows" yaml:"flows"`
	Assembly AssemblyMeta `json:"assembly" yaml:"assembly"`
}
