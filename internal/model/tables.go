package model

import "time"

// Product is a finished good offered to the US market.
type Product struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	UnitWeightKg float64 `json:"unit_weight_kg"`
	ListPriceUSD float64 `json:"list_price_usd"`
}

// BOMLine ties a product to one of its components with the declared
// quantity per finished unit (before scrap inflation).
type BOMLine struct {
	ParentSKU string  `json:"parent_sku"`
	PartID    string  `json:"part_id"`
	Qty       float64 `json:"qty"`
}

// Component is a purchased part with its price in the origin site's
// local currency.
type Component struct {
	PartID         string  `json:"part_id"`
	Class          string  `json:"class"`
	UnitWeightKg   float64 `json:"unit_weight_kg"`
	BasePriceLocal float64 `json:"base_price_local"`
	OriginSiteID   string  `json:"origin_site_id"`
}

// Site is a physical location in the supply network.
type Site struct {
	SiteID  string  `json:"site_id"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Role    string  `json:"role"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// AssemblyOption declares that a SKU may be assembled at a site, with the
// conversion cost and efficiency of doing so there.
type AssemblyOption struct {
	SKU             string  `json:"sku"`
	AssemblySiteID  string  `json:"assembly_site_id"`
	BaseConvCostUSD float64 `json:"base_conv_cost_usd"`
	ScrapRate       float64 `json:"scrap_rate"`
	Yield           float64 `json:"yield"`
}

// LogisticsLane is a directional country-to-country shipping lane. For a
// given country pair only the first matching lane is considered.
type LogisticsLane struct {
	FromCountry         string  `json:"from_country"`
	ToCountry           string  `json:"to_country"`
	CostPerKgUSD        float64 `json:"cost_per_kg_usd"`
	FixedPerShipmentUSD float64 `json:"fixed_per_shipment_usd"`
	LeadTimeDays        float64 `json:"lead_time_days"`
}

// TariffScenario is a dated, named scenario offered for selection. The
// engine consumes only its date key.
type TariffScenario struct {
	ScenarioDate time.Time `json:"scenario_date"`
	Description  string    `json:"description"`
}

// USTariffEntry is a scenario-specific ad-valorem rate applicable when the
// destination of the tariff event is the United States.
type USTariffEntry struct {
	ScenarioDate       time.Time `json:"scenario_date"`
	ComponentClass     string    `json:"component_class"`
	OriginCountry      string    `json:"origin_country"`
	AdValoremTariffPct float64   `json:"us_ad_valorem_tariff_pct"`
}

// TariffOverride is a user-editable rate row. UserRatePct takes precedence
// over everything else when present; DefaultRatePct is the fallback of last
// resort. Overrides are supplied fresh on every computation and never
// written back to the reference tables.
type TariffOverride struct {
	ComponentClass string   `json:"component_class" yaml:"component_class"`
	OriginCountry  string   `json:"origin_country" yaml:"origin_country"`
	DefaultRatePct *float64 `json:"default_rate_pct,omitempty" yaml:"default_rate_pct,omitempty"`
	UserRatePct    *float64 `json:"user_rate_pct,omitempty" yaml:"user_rate_pct,omitempty"`
}

// FXRate maps a currency code to the USD value of one unit of it.
type FXRate struct {
	Currency   string  `json:"currency"`
	USDPerUnit float64 `json:"usd_per_unit"`
}

// MapNode is a renderable site node for the flow map.
type MapNode struct {
	SiteID  string  `json:"site_id"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Role    string  `json:"role"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Region  string  `json:"region"`
}

// Tables holds the full set of reference tables consumed by the cost
// engine. All slices are read-only once loaded; numeric columns use NaN as
// the missing-value marker.
type Tables struct {
	Products        []Product        `json:"products"`
	BOM             []BOMLine        `json:"bom"`
	Components      []Component      `json:"components"`
	Sites           []Site           `json:"sites"`
	AssemblyOptions []AssemblyOption `json:"assembly_options"`
	LogisticsLanes  []LogisticsLane  `json:"logistics_lanes"`
	TariffScenarios []TariffScenario `json:"tariff_scenarios"`
	TariffsUS       []USTariffEntry  `json:"tariffs_us"`
	TariffInputs    []TariffOverride `json:"tariff_inputs"`
	FX              []FXRate         `json:"fx"`
	MapNodes        []MapNode        `json:"map_nodes"`
}
