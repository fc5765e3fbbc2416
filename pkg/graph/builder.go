package graph

import (
	"errors"
	"fmt"
	"slices"
)

// ErrBadWeight is returned when an edge weight is not strictly positive.
var ErrBadWeight = errors.New("edge weight must be strictly positive")

// Builder accumulates vertices and edges and freezes them into a CSR.
// Duplicate edges are summed, so the frozen graph has no multi-edges.
type Builder struct {
	adj     []map[uint32]float64
	present []bool
	order   int
	size    int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// grow extends the id space to include u.
func (b *Builder) grow(u uint32) {
	for int(u) >= len(b.adj) {
		b.adj = append(b.adj, nil)
		b.present = append(b.present, false)
	}
}

// AddVertex ensures vertex u exists, even if isolated.
func (b *Builder) AddVertex(u uint32) {
	b.grow(u)
	if !b.present[u] {
		b.present[u] = true
		b.order++
	}
}

// AddEdge adds the directed edge (u, v, w), summing with any existing edge.
func (b *Builder) AddEdge(u, v uint32, w float64) error {
	if w <= 0 {
		return fmt.Errorf("%w: (%d, %d, %g)", ErrBadWeight, u, v, w)
	}
	b.AddVertex(u)
	b.AddVertex(v)
	if b.adj[u] == nil {
		b.adj[u] = make(map[uint32]float64)
	}
	if _, ok := b.adj[u][v]; !ok {
		b.size++
	}
	b.adj[u][v] += w
	return nil
}

// AddUndirectedEdge adds {u, v, w} as a symmetric pair of directed edges.
// A self-loop is added once.
func (b *Builder) AddUndirectedEdge(u, v uint32, w float64) error {
	if err := b.AddEdge(u, v, w); err != nil {
		return err
	}
	if u != v {
		return b.AddEdge(v, u, w)
	}
	return nil
}

// Span returns one past the largest vertex id seen so far.
func (b *Builder) Span() int { return len(b.adj) }

// Build freezes the accumulated graph into a CSR. Edge blocks are sorted by
// target id so identical input always freezes to an identical graph.
func (b *Builder) Build() *CSR {
	span := len(b.adj)
	c := NewCSR(span, b.size)
	c.order = b.order
	c.present = make([]uint8, span)

	var off uint64
	keys := make([]uint32, 0, 64)
	for u := 0; u < span; u++ {
		c.Offsets[u] = off
		if b.present[u] {
			c.present[u] = 1
		}
		keys = keys[:0]
		for v := range b.adj[u] {
			keys = append(keys, v)
		}
		slices.Sort(keys)
		for _, v := range keys {
			c.EdgeKeys[off] = v
			c.EdgeValues[off] = b.adj[u][v]
			off++
		}
		c.Degrees[u] = uint32(len(keys))
	}
	c.Offsets[span] = off
	return c
}
