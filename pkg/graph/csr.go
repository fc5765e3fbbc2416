package graph

import "sync/atomic"

// CSR is a weighted digraph in compressed-sparse-row form. Offsets[u] is the
// start of u's edge block, Degrees[u] the number of edges written so far, and
// EdgeKeys/EdgeValues hold the targets and weights. Degrees doubles as the
// append cursor while a graph is being filled, so a vertex's block may have
// slack between Degrees[u] and the next offset; the slack is never compacted.
//
// A CSR with a nil presence bitmap is dense: every vertex in [0, span) exists.
// Aggregated graphs are always dense; graphs built from sparse input carry the
// bitmap set by the Builder.
type CSR struct {
	Offsets    []uint64 // length span+1
	Degrees    []uint32 // length span
	EdgeKeys   []uint32
	EdgeValues []float64 // nil for key-only groupings

	span    int
	order   int
	present []uint8 // nil means all of [0, span) present
}

// NewCSR allocates a dense CSR with the given vertex span and edge capacity.
// The backing arrays are sized once; Respan shrinks the active span without
// reallocating, so successive aggregation passes reuse the same memory.
func NewCSR(span, edgeCapacity int) *CSR {
	return &CSR{
		Offsets:    make([]uint64, span+1),
		Degrees:    make([]uint32, span),
		EdgeKeys:   make([]uint32, edgeCapacity),
		EdgeValues: make([]float64, edgeCapacity),
		span:       span,
		order:      span,
	}
}

// NewCSRKeys allocates a key-only CSR used for grouping vertices by community.
func NewCSRKeys(span, edgeCapacity int) *CSR {
	return &CSR{
		Offsets:  make([]uint64, span+1),
		Degrees:  make([]uint32, span),
		EdgeKeys: make([]uint32, edgeCapacity),
		span:     span,
		order:    span,
	}
}

// Respan resizes the active vertex span, reusing the backing arrays. The new
// span must not exceed the span the CSR was allocated with.
func (c *CSR) Respan(span int) {
	c.Offsets = c.Offsets[:span+1]
	c.Degrees = c.Degrees[:span]
	c.span = span
	c.order = span
	c.present = nil
}

// Span returns one past the largest possible vertex id.
func (c *CSR) Span() int { return c.span }

// Order returns the number of vertices present.
func (c *CSR) Order() int { return c.order }

// Size returns the number of directed edges written.
func (c *CSR) Size() int {
	n := 0
	for _, d := range c.Degrees {
		n += int(d)
	}
	return n
}

// HasVertex reports whether vertex u is present.
func (c *CSR) HasVertex(u uint32) bool {
	if int(u) >= c.span {
		return false
	}
	return c.present == nil || c.present[u] != 0
}

// Degree returns the number of outgoing edges of u.
func (c *CSR) Degree(u uint32) int { return int(c.Degrees[u]) }

// ForEachVertexKey calls fn for every present vertex in increasing id order.
func (c *CSR) ForEachVertexKey(fn func(u uint32)) {
	for u := 0; u < c.span; u++ {
		if c.present != nil && c.present[u] == 0 {
			continue
		}
		fn(uint32(u))
	}
}

// ForEachEdge calls fn for every outgoing edge (v, w) of u.
func (c *CSR) ForEachEdge(u uint32, fn func(v uint32, w float64)) {
	off := c.Offsets[u]
	for i := off; i < off+uint64(c.Degrees[u]); i++ {
		fn(c.EdgeKeys[i], c.EdgeValues[i])
	}
}

// ForEachEdgeKey calls fn for every outgoing edge target of u.
func (c *CSR) ForEachEdgeKey(u uint32, fn func(v uint32)) {
	off := c.Offsets[u]
	for i := off; i < off+uint64(c.Degrees[u]); i++ {
		fn(c.EdgeKeys[i])
	}
}

// EdgeWeight returns the sum of all directed edge weights.
func (c *CSR) EdgeWeight() float64 {
	var sum float64
	for u := 0; u < c.span; u++ {
		off := c.Offsets[u]
		for i := off; i < off+uint64(c.Degrees[uint32(u)]); i++ {
			sum += c.EdgeValues[i]
		}
	}
	return sum
}

// AddEdgeAt appends edge (u, v, w) into u's block, advancing the Degrees
// cursor. The caller must guarantee u's block is written by one goroutine.
func (c *CSR) AddEdgeAt(u, v uint32, w float64) {
	i := c.Offsets[u] + uint64(c.Degrees[u])
	c.EdgeKeys[i] = v
	c.EdgeValues[i] = w
	c.Degrees[u]++
}

// AddKeyAt appends key v into u's block without a weight.
func (c *CSR) AddKeyAt(u, v uint32) {
	i := c.Offsets[u] + uint64(c.Degrees[u])
	c.EdgeKeys[i] = v
	c.Degrees[u]++
}

// AddKeyAtAtomic appends key v into u's block using an atomic fetch-add on
// the cursor, for builders that fill distinct blocks from multiple goroutines.
func (c *CSR) AddKeyAtAtomic(u, v uint32) {
	n := atomic.AddUint32(&c.Degrees[u], 1)
	c.EdgeKeys[c.Offsets[u]+uint64(n-1)] = v
}
