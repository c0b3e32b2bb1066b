package network

// DivisionStats counts messages in and out of one division.
type DivisionStats struct {
	Outgoing int `json:"outgoing"`
	Incoming int `json:"incoming"`
	Total    int `json:"total"`
}

// PairStats summarises traffic over one directed channel.
type PairStats struct {
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
	Priority  float64 `json:"priority"`
}

// Stats aggregates the communication history.
type Stats struct {
	TotalCommunications int                      `json:"total_communications"`
	ByDivision          map[string]DivisionStats `json:"division_stats"`
	ByPair              map[[2]string]PairStats  `json:"-"`
}

// CommunicationStats tallies the history per division and per channel.
func (g *Graph) CommunicationStats() Stats {
	stats := Stats{
		TotalCommunications: len(g.history),
		ByDivision:          make(map[string]DivisionStats, len(g.order)),
		ByPair:              make(map[[2]string]PairStats),
	}

	for _, id := range g.order {
		var s DivisionStats
		for _, rec := range g.history {
			if rec.Source == id {
				s.Outgoing++
			}
			if rec.Target == id {
				s.Incoming++
			}
		}
		s.Total = s.Outgoing + s.Incoming
		stats.ByDivision[id] = s
	}

	for src, out := range g.edges {
		for dst, attrs := range out {
			count := 0
			for _, rec := range g.history {
				if rec.Source == src && rec.Target == dst {
					count++
				}
			}
			stats.ByPair[[2]string{src, dst}] = PairStats{
				Count:     count,
				Frequency: attrs.Frequency,
				Priority:  attrs.Priority,
			}
		}
	}
	return stats
}

// SnapshotNode and SnapshotEdge form the read-only view handed to
// visualization and export consumers.
type SnapshotNode struct {
	ID    string    `json:"id"`
	Attrs NodeAttrs `json:"attrs"`
}

type SnapshotEdge struct {
	Source string    `json:"source"`
	Target string    `json:"target"`
	Attrs  EdgeAttrs `json:"attrs"`
}

type Snapshot struct {
	Nodes               []SnapshotNode `json:"nodes"`
	Edges               []SnapshotEdge `json:"edges"`
	TotalCommunications int            `json:"total_communications"`
}

// Snapshot copies the current node and edge sets. Nodes appear in
// insertion order; edges in source-then-target insertion order.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{TotalCommunications: len(g.history)}
	for _, id := range g.order {
		snap.Nodes = append(snap.Nodes, SnapshotNode{ID: id, Attrs: *g.nodes[id]})
	}
	for _, src := range g.order {
		for _, dst := range g.order {
			if e, ok := g.edges[src][dst]; ok {
				snap.Edges = append(snap.Edges, SnapshotEdge{Source: src, Target: dst, Attrs: *e})
			}
		}
	}
	return snap
}
