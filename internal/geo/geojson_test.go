package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/model"
)

func testNodes() []model.MapNode {
	return []model.MapNode{
		{SiteID: "SUP_DE_STU", Country: "Germany", City: "Stuttgart", Role: "Component supplier", Lat: 48.78, Lon: 9.18},
		{SiteID: "PLANT_US_MI", Country: "United States", City: "Detroit", Role: "Assembly", Lat: 42.33, Lon: -83.05},
	}
}

func testResult() *engine.Result {
	return &engine.Result{
		Flows: []engine.FlowEdge{
			{
				SKU: "ACTUATOR_AX100", Component: "MOTOR_DE",
				FromSite: "SUP_DE_STU", ToSite: "PLANT_US_MI",
				FromCountry: "Germany", ToCountry: "United States",
				TariffRate: 0.1, TariffSource: "Default",
				CostValue: 220, CostShare: 0.8,
			},
			{
				SKU: "ACTUATOR_AX100", Component: "ACTUATOR_AX100",
				FromSite: "PLANT_US_MI", ToSite: "US_CUSTOMER",
				FromCountry: "United States", ToCountry: "United States",
				TariffSource: "Domestic",
				CostValue:    55, CostShare: 0.2,
			},
		},
		Assembly: engine.AssemblyMeta{SiteID: "PLANT_US_MI", Country: "United States"},
	}
}

func TestFlowMap(t *testing.T) {
	t.Parallel()

	fc, err := FlowMap([]*engine.Result{testResult()}, testNodes())
	require.NoError(t, err)

	// 2 edges + 2 loaded nodes + the synthetic US customer node.
	require.Len(t, fc.Features, 5)

	line, ok := fc.Features[0].Geometry.(*geom.LineString)
	require.True(t, ok)
	assert.Equal(t, []float64{9.18, 48.78, -83.05, 42.33}, line.FlatCoords())
	assert.Equal(t, "flow", fc.Features[0].Properties["kind"])
	assert.Equal(t, 0.8, fc.Features[0].Properties["cost_share"])

	var sites []string
	for _, f := range fc.Features[2:] {
		pt, ok := f.Geometry.(*geom.Point)
		require.True(t, ok)
		require.Len(t, pt.FlatCoords(), 2)
		assert.Equal(t, "site", f.Properties["kind"])
		sites = append(sites, f.Properties["site_id"].(string))
	}
	assert.Equal(t, []string{"SUP_DE_STU", "PLANT_US_MI", "US_CUSTOMER"}, sites)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
}

func TestFlowMapSkipsUnknownEndpoints(t *testing.T) {
	t.Parallel()

	res := testResult()
	res.Flows[0].FromSite = "SUP_GHOST"

	fc, err := FlowMap([]*engine.Result{res}, testNodes())
	require.NoError(t, err)

	// Only the outbound edge survives, plus its two endpoints.
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "flow", fc.Features[0].Properties["kind"])
	assert.Equal(t, "ACTUATOR_AX100", fc.Features[0].Properties["component"])
}

func TestFlowMapDedupesNodesAcrossResults(t *testing.T) {
	t.Parallel()

	fc, err := FlowMap([]*engine.Result{testResult(), testResult()}, testNodes())
	require.NoError(t, err)

	// Edges duplicate per result, node points do not.
	require.Len(t, fc.Features, 7)
}

func TestFlowMapEmpty(t *testing.T) {
	t.Parallel()

	_, err := FlowMap(nil, testNodes())
	assert.Error(t, err)
}
