// Package workbook loads the tariff planning workbook into the typed
// reference tables consumed by the cost engine. Numeric columns are coerced
// with NaN as the missing-value marker and date columns are normalized to
// UTC day values; only a missing sheet is an error.
package workbook

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/tariff-cli/internal/model"
)

// Sheet names expected in the workbook.
const (
	SheetProducts        = "Products"
	SheetBOM             = "BOM"
	SheetComponents      = "Components"
	SheetSites           = "Sites"
	SheetAssemblyOptions = "AssemblyOptions"
	SheetLogisticsLanes  = "LogisticsLanes"
	SheetTariffScenarios = "TariffScenarios"
	SheetTariffsUS       = "Tariffs_US"
	SheetTariffInputs    = "TariffInputs"
	SheetFX              = "FX"
	SheetMapNodes        = "MapNodes"
)

// Load reads all eleven reference sheets from the workbook at path.
func Load(path string) (*model.Tables, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open %s", path)
	}
	return parse(f)
}

func parse(f *xlsx.File) (*model.Tables, error) {
	t := &model.Tables{}

	if err := eachRow(f, SheetProducts, func(r row) {
		t.Products = append(t.Products, model.Product{
			SKU:          r.str("SKU"),
			Name:         r.str("Name"),
			UnitWeightKg: Float(r.str("UnitWeight_kg")),
			ListPriceUSD: Float(r.str("ListPrice_USD")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetBOM, func(r row) {
		t.BOM = append(t.BOM, model.BOMLine{
			ParentSKU: r.str("ParentSKU"),
			PartID:    r.str("PartID"),
			Qty:       Float(r.str("Qty")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetComponents, func(r row) {
		t.Components = append(t.Components, model.Component{
			PartID:         r.str("PartID"),
			Class:          r.str("Class"),
			UnitWeightKg:   Float(r.str("UnitWeight_kg")),
			BasePriceLocal: Float(r.str("BasePrice_local")),
			OriginSiteID:   r.str("OriginSiteID"),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetSites, func(r row) {
		t.Sites = append(t.Sites, model.Site{
			SiteID:  r.str("SiteID"),
			Country: r.str("Country"),
			City:    r.str("City"),
			Role:    r.str("Role"),
			Lat:     Float(r.str("Lat")),
			Lon:     Float(r.str("Lon")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetAssemblyOptions, func(r row) {
		t.AssemblyOptions = append(t.AssemblyOptions, model.AssemblyOption{
			SKU:             r.str("SKU"),
			AssemblySiteID:  r.str("AssemblySiteID"),
			BaseConvCostUSD: Float(r.str("BaseConvCost_USD")),
			ScrapRate:       Float(r.str("ScrapRate")),
			Yield:           Float(r.str("Yield")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetLogisticsLanes, func(r row) {
		t.LogisticsLanes = append(t.LogisticsLanes, model.LogisticsLane{
			FromCountry:         r.str("FromCountry"),
			ToCountry:           r.str("ToCountry"),
			CostPerKgUSD:        Float(r.str("Cost_per_kg_USD")),
			FixedPerShipmentUSD: Float(r.str("Fixed_per_shipment_USD")),
			LeadTimeDays:        Float(r.str("LeadTime_days")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetTariffScenarios, func(r row) {
		t.TariffScenarios = append(t.TariffScenarios, model.TariffScenario{
			ScenarioDate: Date(r.str("ScenarioDate")),
			Description:  r.str("Description"),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetTariffsUS, func(r row) {
		t.TariffsUS = append(t.TariffsUS, model.USTariffEntry{
			ScenarioDate:       Date(r.str("ScenarioDate")),
			ComponentClass:     r.str("ComponentClass"),
			OriginCountry:      r.str("OriginCountry"),
			AdValoremTariffPct: Float(r.str("US_AdValoremTariff_pct")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetTariffInputs, func(r row) {
		t.TariffInputs = append(t.TariffInputs, model.TariffOverride{
			ComponentClass: r.str("ComponentClass"),
			OriginCountry:  r.str("OriginCountry"),
			DefaultRatePct: OptionalFloat(r.str("DefaultRate_pct")),
			UserRatePct:    OptionalFloat(r.str("UserRate_pct")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetFX, func(r row) {
		t.FX = append(t.FX, model.FXRate{
			Currency:   r.str("Currency"),
			USDPerUnit: Float(r.str("USD_per_unit")),
		})
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetMapNodes, func(r row) {
		t.MapNodes = append(t.MapNodes, model.MapNode{
			SiteID:  r.str("SiteID"),
			Country: r.str("Country"),
			City:    r.str("City"),
			Role:    r.str("Role"),
			Lat:     Float(r.str("Lat")),
			Lon:     Float(r.str("Lon")),
			Region:  r.str("Region"),
		})
	}); err != nil {
		return nil, err
	}

	return t, nil
}

// row gives header-keyed access to one data row.
type row struct {
	headers map[string]int
	cells   []string
}

func (r row) str(column string) string {
	i, ok := r.headers[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// eachRow visits every data row of the named sheet. The first row is the
// header; fully empty rows are skipped.
func eachRow(f *xlsx.File, name string, visit func(row)) error {
	sheet, ok := f.Sheet[name]
	if !ok {
		return eris.Errorf("workbook: sheet %q not found", name)
	}

	var headers map[string]int
	for i, r := range sheet.Rows {
		cells := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = c.String()
		}
		if i == 0 {
			headers = make(map[string]int, len(cells))
			for j, h := range cells {
				headers[strings.TrimSpace(h)] = j
			}
			continue
		}
		if blank(cells) {
			continue
		}
		visit(row{headers: headers, cells: cells})
	}
	return nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
