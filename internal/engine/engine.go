package engine

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tariff-cli/internal/model"
)

// TargetSKUs are the two actuator products the engine rolls up.
var TargetSKUs = []string{"ACTUATOR_AX100", "ACTUATOR_AX200"}

const (
	// unitedStates is the destination country of every finished good.
	unitedStates = "United States"

	// fixedFeeDivisor amortizes the per-shipment fixed fee down to a
	// per-unit figure when fee inclusion is enabled.
	fixedFeeDivisor = 10000.0
)

// USCustomerNode is the synthetic demand-side site appended at query time;
// it is not part of the loaded Sites table.
var USCustomerNode = model.MapNode{
	SiteID:  "US_CUSTOMER",
	Country: unitedStates,
	City:    "US Market",
	Role:    "Customer demand",
	Lat:     41.8781,
	Lon:     -87.6298,
	Region:  unitedStates,
}

// ErrUnknownSite is returned by Compute when the assembly site identifier
// is not present in the Sites table. It is the engine's only validated
// precondition; all other missing data degrades to zero contributions.
var ErrUnknownSite = eris.New("unknown assembly site")

// Engine computes landed costs over a fixed set of reference tables. It is
// stateless across invocations: every Compute call is a pure function of
// the tables and its Input.
type Engine struct {
	tables *model.Tables

	fx         FXTable
	sites      map[string]model.Site
	products   map[string]model.Product
	components map[string]model.Component
}

// New builds an Engine with lookup indexes over the supplied tables. The
// tables must not be mutated afterwards.
func New(tables *model.Tables) *Engine {
	e := &Engine{
		tables:     tables,
		fx:         NewFXTable(tables.FX),
		sites:      make(map[string]model.Site, len(tables.Sites)),
		products:   make(map[string]model.Product, len(tables.Products)),
		components: make(map[string]model.Component, len(tables.Components)),
	}
	for _, s := range tables.Sites {
		if _, ok := e.sites[s.SiteID]; !ok {
			e.sites[s.SiteID] = s
		}
	}
	for _, p := range tables.Products {
		if _, ok := e.products[p.SKU]; !ok {
			e.products[p.SKU] = p
		}
	}
	for _, c := range tables.Components {
		if _, ok := e.components[c.PartID]; !ok {
			e.components[c.PartID] = c
		}
	}
	return e
}

// Tables returns the reference tables the engine was built over.
func (e *Engine) Tables() *model.Tables { return e.tables }

// Compute rolls up landed cost, margin, and lead time for every target SKU
// buildable at the requested assembly site, and emits the annotated
// cost-flow edge list. Products without an assembly option or BOM rows at
// the chosen site are silently skipped.
func (e *Engine) Compute(in Input) (*Result, error) {
	assemblySite, ok := e.sites[in.AssemblySiteID]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownSite, "engine: %s", in.AssemblySiteID)
	}

	res := &Result{
		Summary: []SummaryRow{},
		Flows:   []FlowEdge{},
		Assembly: AssemblyMeta{
			SiteID:  in.AssemblySiteID,
			Country: assemblySite.Country,
			Role:    assemblySite.Role,
		},
	}

	for _, sku := range TargetSKUs {
		product, ok := e.products[sku]
		if !ok {
			continue
		}
		option, ok := e.findAssemblyOption(sku, in.AssemblySiteID)
		if !ok {
			continue
		}
		bom := e.bomLines(sku)
		if len(bom) == 0 {
			continue
		}

		yield := option.Yield
		if math.IsNaN(yield) || yield == 0 {
			yield = 1.0
		}
		conversionCost := e.fx.USDToReporting(option.BaseConvCostUSD)

		var (
			materialTotal   float64
			inboundTotal    float64
			componentTariff float64
			maxLead         float64
			edges           []FlowEdge
		)

		for _, line := range bom {
			comp := e.components[line.PartID] // zero value when unresolved: zero cost, zero weight
			quantity := nz(line.Qty) / yield
			weight := quantity * nz(comp.UnitWeightKg)

			originCountry, originRole := "", ""
			if origin, ok := e.sites[comp.OriginSiteID]; ok {
				originCountry = origin.Country
				originRole = origin.Role
			}

			currency, ok := countryCurrency[originCountry]
			if !ok {
				currency = "USD"
			}
			materialCost := e.fx.LocalToReporting(nz(comp.BasePriceLocal)*quantity, currency)
			materialTotal += materialCost

			logisticsCost, leadTime := e.laneCost(originCountry, assemblySite.Country, weight, in.IncludeFixedFees)
			inboundTotal += logisticsCost
			if leadTime > maxLead {
				maxLead = leadTime
			}

			tariffRate, tariffSource := 0.0, SourceOutsideUS
			if assemblySite.Country == unitedStates {
				tariffRate, tariffSource = ResolveTariffRate(comp.Class, originCountry, in.ScenarioDate, in.Overrides, e.tables.TariffsUS)
			}
			tariffValue := materialCost * tariffRate
			componentTariff += tariffValue

			edges = append(edges, FlowEdge{
				SKU:          sku,
				Component:    line.PartID,
				FromSite:     comp.OriginSiteID,
				ToSite:       in.AssemblySiteID,
				FromCountry:  originCountry,
				ToCountry:    assemblySite.Country,
				FromRole:     originRole,
				ToRole:       assemblySite.Role,
				TariffRate:   tariffRate,
				TariffSource: tariffSource,
				CostValue:    materialCost + logisticsCost + tariffValue,
			})
		}

		outboundCost, outboundLead := e.laneCost(assemblySite.Country, unitedStates, nz(product.UnitWeightKg), in.IncludeFixedFees)

		finalRate, finalSource := 0.0, SourceDomestic
		if assemblySite.Country != unitedStates {
			finalRate, finalSource = ResolveTariffRate(FinalAssemblyClass, assemblySite.Country, in.ScenarioDate, in.Overrides, e.tables.TariffsUS)
		}
		// Tariff on total value-added at final assembly: material plus
		// inbound logistics plus conversion, not material alone.
		finalTariff := (materialTotal + inboundTotal + conversionCost) * finalRate

		landedCost := materialTotal + inboundTotal + outboundCost + componentTariff + finalTariff + conversionCost
		listPrice := e.fx.USDToReporting(nz(product.ListPriceUSD))
		margin := listPrice - landedCost
		marginPct := 0.0
		if listPrice != 0 {
			marginPct = margin / listPrice
		}

		res.Summary = append(res.Summary, SummaryRow{
			ScenarioDate:      in.ScenarioDate,
			AssemblySiteID:    in.AssemblySiteID,
			SKU:               sku,
			SKUDisplay:        strings.TrimPrefix(sku, "ACTUATOR_"),
			MaterialCost:      materialTotal,
			InboundLogistics:  inboundTotal,
			OutboundLogistics: outboundCost,
			Tariffs:           componentTariff + finalTariff,
			ConversionCost:    conversionCost,
			LandedCost:        landedCost,
			ListPrice:         listPrice,
			Margin:            margin,
			MarginPct:         marginPct,
			LeadTimeDays:      maxLead + outboundLead,
		})

		finishedEdge := FlowEdge{
			SKU:          sku,
			Component:    "Finished Good",
			FromSite:     in.AssemblySiteID,
			ToSite:       USCustomerNode.SiteID,
			FromCountry:  assemblySite.Country,
			ToCountry:    unitedStates,
			FromRole:     assemblySite.Role,
			ToRole:       USCustomerNode.Role,
			TariffRate:   finalRate,
			TariffSource: finalSource,
			CostValue:    outboundCost + finalTariff,
		}
		res.Flows = append(res.Flows, aggregateFlows(edges, finishedEdge, landedCost)...)
	}

	return res, nil
}

// findAssemblyOption returns the first option row for (sku, site).
func (e *Engine) findAssemblyOption(sku, siteID string) (model.AssemblyOption, bool) {
	for _, o := range e.tables.AssemblyOptions {
		if o.SKU == sku && o.AssemblySiteID == siteID {
			return o, true
		}
	}
	return model.AssemblyOption{}, false
}

// bomLines returns the BOM rows for a SKU in table order.
func (e *Engine) bomLines(sku string) []model.BOMLine {
	var lines []model.BOMLine
	for _, l := range e.tables.BOM {
		if l.ParentSKU == sku {
			lines = append(lines, l)
		}
	}
	return lines
}

// laneCost prices a shipment of the given weight over the first lane
// matching the country pair, converted to the reporting currency. A missing
// lane degrades to zero cost and zero lead time.
func (e *Engine) laneCost(fromCountry, toCountry string, weightKg float64, includeFixedFees bool) (cost, leadDays float64) {
	for _, lane := range e.tables.LogisticsLanes {
		if lane.FromCountry != fromCountry || lane.ToCountry != toCountry {
			continue
		}
		costUSD := nz(lane.CostPerKgUSD) * weightKg
		if includeFixedFees {
			costUSD += nz(lane.FixedPerShipmentUSD) / fixedFeeDivisor
		}
		return e.fx.USDToReporting(costUSD), nz(lane.LeadTimeDays)
	}
	return 0, 0
}

// nz maps the NaN missing-value marker to zero.
func nz(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
