package workbook

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// defaultHeaders supplies a header row for every expected sheet so tests
// only need to spell out the sheets they care about.
var defaultHeaders = map[string][]string{
	SheetProducts:        {"SKU", "Name", "UnitWeight_kg", "ListPrice_USD"},
	SheetBOM:             {"ParentSKU", "PartID", "Qty"},
	SheetComponents:      {"PartID", "Class", "UnitWeight_kg", "BasePrice_local", "OriginSiteID"},
	SheetSites:           {"SiteID", "Country", "City", "Role", "Lat", "Lon"},
	SheetAssemblyOptions: {"SKU", "AssemblySiteID", "BaseConvCost_USD", "ScrapRate", "Yield"},
	SheetLogisticsLanes:  {"FromCountry", "ToCountry", "Cost_per_kg_USD", "Fixed_per_shipment_USD", "LeadTime_days"},
	SheetTariffScenarios: {"ScenarioDate", "Description"},
	SheetTariffsUS:       {"ScenarioDate", "ComponentClass", "OriginCountry", "US_AdValoremTariff_pct"},
	SheetTariffInputs:    {"ComponentClass", "OriginCountry", "ScenarioDateDefault", "DefaultRate_pct", "UserRate_pct"},
	SheetFX:              {"Currency", "USD_per_unit"},
	SheetMapNodes:        {"SiteID", "Country", "City", "Role", "Lat", "Lon", "Region"},
}

func writeWorkbook(t *testing.T, data map[string][][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	for name, headers := range defaultHeaders {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)

		hr := sheet.AddRow()
		for _, h := range headers {
			hr.AddCell().Value = h
		}
		for _, rowCells := range data[name] {
			r := sheet.AddRow()
			for _, c := range rowCells {
				r.AddCell().Value = c
			}
		}
	}

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]string{
		SheetProducts: {
			{"ACTUATOR_AX100", "Actuator AX100", "2.4", "900"},
			{"ACTUATOR_AX200", "Actuator AX200", "bad", ""},
		},
		SheetBOM: {
			{"ACTUATOR_AX100", "MOTOR_CN", "2"},
		},
		SheetComponents: {
			{"MOTOR_CN", "motor", "1.1", "180", "SUP_CN_SHA"},
		},
		SheetSites: {
			{"SUP_CN_SHA", "China", "Shanghai", "Supplier", "31.23", "121.47"},
		},
		SheetAssemblyOptions: {
			{"ACTUATOR_AX100", "BU_CH_MUR", "95", "0.03", "0.97"},
		},
		SheetLogisticsLanes: {
			{"China", "Switzerland", "2.1", "4500", "28"},
		},
		SheetTariffScenarios: {
			{"2025-07-01", "Status quo"},
		},
		SheetTariffsUS: {
			{"2025-07-01", "motor", "China", "25"},
		},
		SheetTariffInputs: {
			{"motor", "China", "2025-07-01", "25", ""},
			{"housing", "Serbia", "2025-07-01", "", "12.5"},
		},
		SheetFX: {
			{"CHF", "0.9"},
		},
		SheetMapNodes: {
			{"SUP_CN_SHA", "China", "Shanghai", "Supplier", "31.23", "121.47", "Asia"},
		},
	})

	tables, err := Load(path)
	require.NoError(t, err)

	require.Len(t, tables.Products, 2)
	assert.Equal(t, "ACTUATOR_AX100", tables.Products[0].SKU)
	assert.InDelta(t, 2.4, tables.Products[0].UnitWeightKg, 1e-9)
	assert.True(t, math.IsNaN(tables.Products[1].UnitWeightKg), "bad numeric coerces to NaN")
	assert.True(t, math.IsNaN(tables.Products[1].ListPriceUSD), "empty numeric coerces to NaN")

	require.Len(t, tables.BOM, 1)
	assert.InDelta(t, 2, tables.BOM[0].Qty, 1e-9)

	require.Len(t, tables.Components, 1)
	assert.Equal(t, "SUP_CN_SHA", tables.Components[0].OriginSiteID)

	require.Len(t, tables.AssemblyOptions, 1)
	assert.InDelta(t, 0.97, tables.AssemblyOptions[0].Yield, 1e-9)

	require.Len(t, tables.LogisticsLanes, 1)
	assert.InDelta(t, 28, tables.LogisticsLanes[0].LeadTimeDays, 1e-9)

	wantDay := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.Len(t, tables.TariffScenarios, 1)
	assert.True(t, wantDay.Equal(tables.TariffScenarios[0].ScenarioDate))
	require.Len(t, tables.TariffsUS, 1)
	assert.True(t, wantDay.Equal(tables.TariffsUS[0].ScenarioDate))
	assert.InDelta(t, 25, tables.TariffsUS[0].AdValoremTariffPct, 1e-9)

	require.Len(t, tables.TariffInputs, 2)
	motor := tables.TariffInputs[0]
	require.NotNil(t, motor.DefaultRatePct)
	assert.InDelta(t, 25, *motor.DefaultRatePct, 1e-9)
	assert.Nil(t, motor.UserRatePct, "blank user rate stays absent")
	housing := tables.TariffInputs[1]
	assert.Nil(t, housing.DefaultRatePct)
	require.NotNil(t, housing.UserRatePct)
	assert.InDelta(t, 12.5, *housing.UserRatePct, 1e-9)

	require.Len(t, tables.FX, 1)
	assert.InDelta(t, 0.9, tables.FX[0].USDPerUnit, 1e-9)

	require.Len(t, tables.MapNodes, 1)
	assert.Equal(t, "Asia", tables.MapNodes[0].Region)
}

func TestLoadMissingSheet(t *testing.T) {
	t.Parallel()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetProducts)
	require.NoError(t, err)
	hr := sheet.AddRow()
	hr.AddCell().Value = "SKU"

	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, f.Save(path))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestLoadSkipsBlankRows(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]string{
		SheetFX: {
			{"CHF", "0.9"},
			{"", ""},
			{"CNY", "0.14"},
		},
	})

	tables, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tables.FX, 2)
	assert.Equal(t, "CNY", tables.FX[1].Currency)
}
