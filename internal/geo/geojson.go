// Package geo renders engine flow edges as a GeoJSON FeatureCollection
// suitable for any map frontend. Edges become LineStrings between site
// coordinates and every referenced site becomes a Point.
package geo

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/model"
)

// FlowMap builds a GeoJSON FeatureCollection from the aggregated flow edges
// of one or more engine results. Edges whose endpoints have no coordinates in
// the MapNodes table are skipped with a warning rather than failing the map.
func FlowMap(results []*engine.Result, nodes []model.MapNode) (*geojson.FeatureCollection, error) {
	if len(results) == 0 {
		return nil, eris.New("geo: no results to map")
	}

	index := nodeIndex(nodes)

	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	used := map[string]bool{}

	for _, res := range results {
		for _, edge := range res.Flows {
			from, okFrom := index[edge.FromSite]
			to, okTo := index[edge.ToSite]
			if !okFrom || !okTo {
				zap.L().Warn("geo: edge endpoint missing from map nodes",
					zap.String("from_site", edge.FromSite),
					zap.String("to_site", edge.ToSite))
				continue
			}

			fc.Features = append(fc.Features, edgeFeature(edge, from, to))
			used[from.SiteID] = true
			used[to.SiteID] = true
		}
	}

	// Point features for every endpoint that survived edge filtering,
	// in table order so the output is stable.
	for _, n := range append(append([]model.MapNode{}, nodes...), engine.USCustomerNode) {
		if used[n.SiteID] {
			fc.Features = append(fc.Features, nodeFeature(n))
			used[n.SiteID] = false
		}
	}

	return fc, nil
}

// nodeIndex maps site IDs to their map nodes, first row wins. The synthetic
// US customer node is always present but never shadows a loaded row.
func nodeIndex(nodes []model.MapNode) map[string]model.MapNode {
	index := make(map[string]model.MapNode, len(nodes)+1)
	for _, n := range nodes {
		if _, ok := index[n.SiteID]; !ok {
			index[n.SiteID] = n
		}
	}
	if _, ok := index[engine.USCustomerNode.SiteID]; !ok {
		index[engine.USCustomerNode.SiteID] = engine.USCustomerNode
	}
	return index
}

func edgeFeature(edge engine.FlowEdge, from, to model.MapNode) *geojson.Feature {
	line := geom.NewLineStringFlat(geom.XY, []float64{from.Lon, from.Lat, to.Lon, to.Lat})

	return &geojson.Feature{
		ID:       fmt.Sprintf("%s/%s/%s-%s", edge.SKU, edge.Component, edge.FromSite, edge.ToSite),
		Geometry: line,
		Properties: map[string]interface{}{
			"kind":          "flow",
			"sku":           edge.SKU,
			"component":     edge.Component,
			"from_site":     edge.FromSite,
			"to_site":       edge.ToSite,
			"from_country":  edge.FromCountry,
			"to_country":    edge.ToCountry,
			"tariff_rate":   edge.TariffRate,
			"tariff_source": edge.TariffSource,
			"cost_value":    edge.CostValue,
			"cost_share":    edge.CostShare,
		},
	}
}

func nodeFeature(n model.MapNode) *geojson.Feature {
	return &geojson.Feature{
		ID:       n.SiteID,
		Geometry: geom.NewPointFlat(geom.XY, []float64{n.Lon, n.Lat}),
		Properties: map[string]interface{}{
			"kind":    "site",
			"site_id": n.SiteID,
			"country": n.Country,
			"city":    n.City,
			"role":    n.Role,
			"region":  n.Region,
		},
	}
}
