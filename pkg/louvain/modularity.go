package louvain

import "github.com/dd0wney/cluso-communities/pkg/graph"

// DeltaModularity returns the change in modularity if a vertex moves from
// community d to community c.
//
//	euc   weight from the vertex to community c, excluding self-loops
//	eud   weight from the vertex to its own community d, excluding self-loops
//	vtotU total edge weight of the vertex
//	ctotC total edge weight of community c
//	ctotD total edge weight of community d
//	M     total undirected edge weight of the graph
//	R     resolution
func DeltaModularity(euc, eud, vtotU, ctotC, ctotD, M, R float64) float64 {
	return (euc-eud)/M - R*vtotU*(ctotC-ctotD+vtotU)/(2*M*M)
}

// Modularity scores a partition of g at resolution R. For each community it
// compares the intra-community edge weight against the weight expected under
// a degree-preserving random model.
func Modularity(g graph.Graph, vcom []uint32, R float64) float64 {
	M := g.EdgeWeight() / 2
	if M <= 0 {
		return 0
	}
	span := g.Span()
	cin := make([]float64, span)
	ctot := make([]float64, span)
	g.ForEachVertexKey(func(u uint32) {
		c := vcom[u]
		g.ForEachEdge(u, func(v uint32, w float64) {
			ctot[c] += w
			if vcom[v] == c {
				cin[c] += w
			}
		})
	})
	var q float64
	for c := 0; c < span; c++ {
		k := ctot[c] / (2 * M)
		q += cin[c]/(2*M) - R*k*k
	}
	return q
}
