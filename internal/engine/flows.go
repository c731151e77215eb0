package engine

// aggregateFlows filters and annotates the edges emitted for one SKU.
// Component edges with a non-positive cost contribution carry no analytic
// signal and are dropped; surviving edges get their share of the SKU's
// landed cost. The finished-good edge is appended only when its value is
// strictly positive.
func aggregateFlows(componentEdges []FlowEdge, finished FlowEdge, landedCost float64) []FlowEdge {
	out := make([]FlowEdge, 0, len(componentEdges)+1)
	for _, e := range componentEdges {
		if e.CostValue <= 0 {
			continue
		}
		e.CostShare = costShare(e.CostValue, landedCost)
		out = append(out, e)
	}
	if finished.CostValue > 0 {
		finished.CostShare = costShare(finished.CostValue, landedCost)
		out = append(out, finished)
	}
	return out
}

// costShare divides safely and clamps to >= 0. A zero landed cost yields a
// zero share rather than a division error.
func costShare(value, landedCost float64) float64 {
	if landedCost == 0 {
		return 0
	}
	share := value / landedCost
	if share < 0 {
		return 0
	}
	return share
}
