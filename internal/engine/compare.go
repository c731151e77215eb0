package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// AssemblySiteIDs returns the distinct assembly site identifiers declared
// in the AssemblyOptions table, sorted.
func (e *Engine) AssemblySiteIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range e.tables.AssemblyOptions {
		if _, ok := seen[o.AssemblySiteID]; ok {
			continue
		}
		seen[o.AssemblySiteID] = struct{}{}
		ids = append(ids, o.AssemblySiteID)
	}
	sort.Strings(ids)
	return ids
}

// CompareSites computes the same scenario independently at every candidate
// assembly site. Each point is identically derived with no shared mutable
// state, so the per-site computations run in parallel; results come back in
// sorted site order regardless of completion order.
func (e *Engine) CompareSites(ctx context.Context, in Input) ([]*Result, error) {
	sites := e.AssemblySiteIDs()
	results := make([]*Result, len(sites))

	g, _ := errgroup.WithContext(ctx)
	for i, siteID := range sites {
		siteIn := in
		siteIn.AssemblySiteID = siteID
		g.Go(func() error {
			r, err := e.Compute(siteIn)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
