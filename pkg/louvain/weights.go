package louvain

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// vertexWeights fills vtot[u] with the sum of u's outgoing edge weights.
// Self-loops are summed once.
func vertexWeights(vtot []float64, g graph.Graph) {
	g.ForEachVertexKey(func(u uint32) {
		var sum float64
		g.ForEachEdge(u, func(v uint32, w float64) {
			sum += w
		})
		vtot[u] = sum
	})
}

func vertexWeightsParallel(vtot []float64, g graph.Graph, workers int) {
	parallel.ForDynamic(g.Span(), workers, parallel.DefaultChunk, func(_, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			var sum float64
			g.ForEachEdge(uint32(u), func(v uint32, w float64) {
				sum += w
			})
			vtot[u] = sum
		}
	})
}

// communityWeights accumulates each community's total from its members.
func communityWeights(ctot communityTotals, g graph.Graph, vcom []uint32, vtot []float64) {
	g.ForEachVertexKey(func(u uint32) {
		ctot.add(vcom[u], vtot[u])
	})
}

// initializeCommunities places every vertex in its own community.
func initializeCommunities(vcom []uint32, ctot communityTotals, g graph.Graph, vtot []float64) {
	g.ForEachVertexKey(func(u uint32) {
		vcom[u] = u
		ctot.set(u, vtot[u])
	})
}

func initializeCommunitiesParallel(vcom []uint32, ctot communityTotals, g graph.Graph, vtot []float64, workers int) {
	parallel.ForStatic(g.Span(), workers, func(_, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			vcom[u] = uint32(u)
			ctot.set(uint32(u), vtot[u])
		}
	})
}

// initializeFromSeed places every vertex in the community the seed q names.
func initializeFromSeed(vcom []uint32, ctot communityTotals, g graph.Graph, vtot []float64, q []uint32) {
	g.ForEachVertexKey(func(u uint32) {
		c := q[u]
		vcom[u] = c
		ctot.add(c, vtot[u])
	})
}

func initializeFromSeedParallel(vcom []uint32, ctot communityTotals, g graph.Graph, vtot []float64, q []uint32, workers int) {
	parallel.ForStatic(g.Span(), workers, func(_, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			c := q[u]
			vcom[u] = c
			ctot.atomicAdd(c, vtot[u])
		}
	})
}
