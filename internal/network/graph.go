// Package network models the internal communication graph between
// divisions: who talks to whom, how often, and with what priority.
package network

import (
	"errors"
	"time"
)

// ErrNoPathFound is returned by ShortestPath when the target division is
// unreachable from the source.
var ErrNoPathFound = errors.New("no communication path found")

// NodeAttrs carries division metadata stored on a graph node.
type NodeAttrs struct {
	Name          string   `json:"name"`
	RiskTolerance float64  `json:"risk_tolerance"`
	Expertise     []string `json:"expertise_areas,omitempty"`
}

// EdgeAttrs describes a directed communication channel. Frequency and
// priority are always held in [0,1].
type EdgeAttrs struct {
	Frequency float64 `json:"frequency"`
	Priority  float64 `json:"priority"`
}

// Neighbor pairs a peer division with the attributes of the outgoing
// edge that reaches it.
type Neighbor struct {
	ID   string
	Edge EdgeAttrs
}

// CommunicationRecord is one entry in the append-only communication log.
type CommunicationRecord struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Graph is a weighted directed graph of divisions. It is not safe for
// concurrent use; the owning broker serializes access.
type Graph struct {
	nodes   map[string]*NodeAttrs
	order   []string
	edges   map[string]map[string]*EdgeAttrs
	history []CommunicationRecord
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*NodeAttrs),
		edges: make(map[string]map[string]*EdgeAttrs),
	}
}

// AddNode registers a division. Re-adding an existing id replaces its
// attributes but keeps its insertion rank.
func (g *Graph) AddNode(id string, attrs NodeAttrs) {
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = &attrs
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all division ids in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Graph) Node(id string) (NodeAttrs, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return NodeAttrs{}, false
	}
	return *n, true
}

// AddEdge creates the src->dst channel. A bidirectional request
// materializes as two independent edges with identical initial
// attributes; each can be modified or removed on its own afterwards.
func (g *Graph) AddEdge(src, dst string, frequency, priority float64, bidirectional bool) {
	g.addDirected(src, dst, frequency, priority)
	if bidirectional {
		g.addDirected(dst, src, frequency, priority)
	}
}

func (g *Graph) addDirected(src, dst string, frequency, priority float64) {
	if g.edges[src] == nil {
		g.edges[src] = make(map[string]*EdgeAttrs)
	}
	g.edges[src][dst] = &EdgeAttrs{
		Frequency: clamp01(frequency),
		Priority:  clamp01(priority),
	}
}

// RemoveEdge drops the src->dst channel. The reverse edge is removed
// only when bidirectional is set.
func (g *Graph) RemoveEdge(src, dst string, bidirectional bool) {
	if out, ok := g.edges[src]; ok {
		delete(out, dst)
	}
	if bidirectional {
		if out, ok := g.edges[dst]; ok {
			delete(out, src)
		}
	}
}

func (g *Graph) Edge(src, dst string) (EdgeAttrs, bool) {
	out, ok := g.edges[src]
	if !ok {
		return EdgeAttrs{}, false
	}
	e, ok := out[dst]
	if !ok {
		return EdgeAttrs{}, false
	}
	return *e, true
}

// Neighbors lists every division reachable over one outgoing edge, in
// insertion order of the peer nodes.
func (g *Graph) Neighbors(id string) []Neighbor {
	out, ok := g.edges[id]
	if !ok {
		return nil
	}
	neighbors := make([]Neighbor, 0, len(out))
	for _, peer := range g.order {
		if e, ok := out[peer]; ok {
			neighbors = append(neighbors, Neighbor{ID: peer, Edge: *e})
		}
	}
	return neighbors
}

// ShortestPath finds the fewest-hop route from src to dst with a BFS
// over the directed edges. Edge weights do not influence the route.
func (g *Graph) ShortestPath(src, dst string) ([]string, error) {
	if !g.HasNode(src) || !g.HasNode(dst) {
		return nil, ErrNoPathFound
	}
	if src == dst {
		return []string{src}, nil
	}

	prev := map[string]string{src: ""}
	queue := []string{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, peer := range g.order {
			if _, visited := prev[peer]; visited {
				continue
			}
			if _, ok := g.edges[v][peer]; !ok {
				continue
			}
			prev[peer] = v
			if peer == dst {
				return buildPath(prev, src, dst), nil
			}
			queue = append(queue, peer)
		}
	}
	return nil, ErrNoPathFound
}

func buildPath(prev map[string]string, src, dst string) []string {
	var path []string
	for v := dst; v != ""; v = prev[v] {
		path = append([]string{v}, path...)
		if v == src {
			break
		}
	}
	return path
}

// RecordCommunication appends to the history and warms up the channel:
// every recorded message nudges the edge frequency by 0.01, clamped to
// 1.0.
func (g *Graph) RecordCommunication(src, dst string, payload any) {
	g.history = append(g.history, CommunicationRecord{
		Source:    src,
		Target:    dst,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if e, ok := g.edges[src][dst]; ok {
		e.Frequency = clamp01(e.Frequency + 0.01)
	}
}

// History returns the append-only communication log.
func (g *Graph) History() []CommunicationRecord {
	out := make([]CommunicationRecord, len(g.history))
	copy(out, g.history)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
