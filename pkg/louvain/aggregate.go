package louvain

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// communityTotalDegree fills yoff[c] with the summed degree of community c's
// members. The degree sum bounds the community's super-edge count, so the
// exclusive scan of yoff allots enough slots for every super-edge; the slack
// between a community's actual super-degree and its slot count is tolerated
// and never compacted.
func communityTotalDegree(yoff []uint64, g graph.Graph, vcom []uint32) {
	for c := range yoff {
		yoff[c] = 0
	}
	g.ForEachVertexKey(func(u uint32) {
		yoff[vcom[u]] += uint64(g.Degree(u))
	})
}

// aggregateEdges writes each community's super-edges into y: one edge per
// neighboring community, weighted by the summed edge weight between the two
// member sets. Self-edges are included, so intra-community weight becomes the
// super-vertex's self-loop.
func aggregateEdges(y *graph.CSR, s *scanBuffer, g graph.Graph, vcom []uint32, cv *graph.CSR) {
	C := cv.Span()
	for c := 0; c < C; c++ {
		y.Degrees[c] = 0
	}
	for c := 0; c < C; c++ {
		if cv.Degree(uint32(c)) == 0 {
			continue
		}
		s.clear()
		cv.ForEachEdgeKey(uint32(c), func(u uint32) {
			scanCommunities(s, g, u, vcom, true)
		})
		for _, d := range s.keys {
			y.AddEdgeAt(uint32(c), d, s.wts[d])
		}
	}
}

func aggregateEdgesParallel(y *graph.CSR, bufs []*scanBuffer, g graph.Graph, vcom []uint32, cv *graph.CSR, workers int) {
	C := cv.Span()
	for c := 0; c < C; c++ {
		y.Degrees[c] = 0
	}
	// Each community's edge block is written by the one worker that claimed
	// it, so the append cursor needs no atomics here.
	parallel.ForDynamic(C, workers, parallel.DefaultChunk, func(worker, lo, hi int) {
		s := bufs[worker]
		for c := lo; c < hi; c++ {
			if cv.Degree(uint32(c)) == 0 {
				continue
			}
			s.clear()
			cv.ForEachEdgeKey(uint32(c), func(u uint32) {
				scanCommunities(s, g, u, vcom, true)
			})
			for _, d := range s.keys {
				y.AddEdgeAt(uint32(c), d, s.wts[d])
			}
		}
	})
}

// aggregate builds the next coarser graph in y: one super-vertex per
// community of g, super-edges weighted by summed inter-community edge weight.
// y must already be respanned to the community count.
func aggregate(y *graph.CSR, s *scanBuffer, g graph.Graph, vcom []uint32, cv *graph.CSR) {
	C := cv.Span()
	communityTotalDegree(y.Offsets[:C], g, vcom)
	y.Offsets[C] = exclusiveScan(y.Offsets[:C])
	aggregateEdges(y, s, g, vcom, cv)
}

func aggregateParallel(y *graph.CSR, bufs []*scanBuffer, g graph.Graph, vcom []uint32, cv *graph.CSR, workers int) {
	C := cv.Span()
	communityTotalDegree(y.Offsets[:C], g, vcom)
	y.Offsets[C] = exclusiveScan(y.Offsets[:C])
	aggregateEdgesParallel(y, bufs, g, vcom, cv, workers)
}
