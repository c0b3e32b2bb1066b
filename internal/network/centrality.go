package network

import "sort"

// RankedDivision holds a division and its betweenness centrality score.
type RankedDivision struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// betweenness runs a single Brandes pass over the directed edge set and
// returns raw (unnormalised) node betweenness.
func (g *Graph) betweenness() map[string]float64 {
	scores := make(map[string]float64, len(g.order))
	for _, id := range g.order {
		scores[id] = 0
	}

	for _, source := range g.order {
		stack := make([]string, 0, len(g.order))
		predecessors := make(map[string][]string, len(g.order))
		sigma := make(map[string]float64, len(g.order))
		distance := make(map[string]int, len(g.order))
		for _, id := range g.order {
			sigma[id] = 0
			distance[id] = -1
		}
		sigma[source] = 1
		distance[source] = 0

		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)

			for _, w := range g.order {
				if _, ok := g.edges[v][w]; !ok {
					continue
				}
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		delta := make(map[string]float64, len(g.order))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	// Directed-graph normalisation
	n := len(g.order)
	if n > 2 {
		norm := 1.0 / float64((n-1)*(n-2))
		for id := range scores {
			scores[id] *= norm
		}
	}
	return scores
}

// CentralityRanking returns the topN divisions by betweenness
// centrality, descending. Ties are broken by node insertion order so
// the ranking is deterministic.
func (g *Graph) CentralityRanking(topN int) []RankedDivision {
	if topN <= 0 || len(g.order) == 0 {
		return nil
	}
	scores := g.betweenness()

	rank := make(map[string]int, len(g.order))
	for i, id := range g.order {
		rank[id] = i
	}

	ranked := make([]RankedDivision, 0, len(g.order))
	for _, id := range g.order {
		ranked = append(ranked, RankedDivision{ID: id, Score: scores[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return rank[ranked[i].ID] < rank[ranked[j].ID]
	})

	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}
