// Package graph provides the weighted graph containers used by the community
// detection engine: a read-only traversal interface, a compressed-sparse-row
// digraph, and a builder for assembling graphs from edge input.
//
// Undirected graphs are stored as symmetric digraphs: every undirected edge
// {u, v} appears as both (u, v) and (v, u), and a self-loop appears once.
// EdgeWeight therefore reports twice the undirected total, and callers that
// need the undirected weight divide by two.
package graph

// Graph is the read-only view the algorithms operate on. Vertex ids are dense
// in [0, Span()); the id space may contain holes (HasVertex reports presence).
// Traversal callbacks may be invoked concurrently from distinct goroutines on
// distinct vertices.
type Graph interface {
	// Span returns one past the largest possible vertex id.
	Span() int
	// Order returns the number of vertices actually present.
	Order() int
	// Size returns the number of directed edges.
	Size() int
	// HasVertex reports whether vertex u is present.
	HasVertex(u uint32) bool
	// Degree returns the number of outgoing edges of u.
	Degree(u uint32) int
	// ForEachVertexKey calls fn for every present vertex.
	ForEachVertexKey(fn func(u uint32))
	// ForEachEdge calls fn for every outgoing edge (v, w) of u.
	ForEachEdge(u uint32, fn func(v uint32, w float64))
	// ForEachEdgeKey calls fn for every outgoing edge target of u.
	ForEachEdgeKey(u uint32, fn func(v uint32))
	// EdgeWeight returns the sum of all directed edge weights.
	EdgeWeight() float64
}
