package louvain

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// exclusiveScan replaces a by its exclusive prefix sum and returns the total.
func exclusiveScan[T constraints.Integer](a []T) T {
	var sum T
	for i := range a {
		v := a[i]
		a[i] = sum
		sum += v
	}
	return sum
}

// communityExists marks every community that still has a member and returns
// the count of distinct communities. marks must span the current graph and is
// zeroed here.
func communityExists(marks []uint32, g graph.Graph, vcom []uint32) int {
	for i := range marks {
		marks[i] = 0
	}
	C := 0
	g.ForEachVertexKey(func(u uint32) {
		c := vcom[u]
		if marks[c] == 0 {
			C++
		}
		marks[c] = 1
	})
	return C
}

func communityExistsParallel(marks []uint32, g graph.Graph, vcom []uint32, workers int) int {
	parallel.ForStatic(len(marks), workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			marks[i] = 0
		}
	})
	counts := make([]int, parallel.Workers(workers))
	parallel.ForStatic(g.Span(), workers, func(worker, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			c := vcom[u]
			if atomic.SwapUint32(&marks[c], 1) == 0 {
				counts[worker]++
			}
		}
	})
	C := 0
	for _, n := range counts {
		C += n
	}
	return C
}

// lookupCommunities rewrites every entry of a through the mapping vcom.
func lookupCommunities(a, vcom []uint32) {
	for i, v := range a {
		a[i] = vcom[v]
	}
}

func lookupCommunitiesParallel(a, vcom []uint32, workers int) {
	parallel.ForStatic(len(a), workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			a[i] = vcom[a[i]]
		}
	})
}

// renumberCommunities renumbers the surviving communities densely into
// [0, C). cext must hold the 0/1 marks produced by communityExists; it is
// replaced by its exclusive prefix sum, which maps each surviving old id to
// its new id, and vcom is rewritten through it. Returns C.
func renumberCommunities(vcom, cext []uint32) int {
	C := exclusiveScan(cext)
	lookupCommunities(vcom, cext)
	return int(C)
}

func renumberCommunitiesParallel(vcom, cext []uint32, workers int) int {
	C := exclusiveScan(cext)
	lookupCommunitiesParallel(vcom, cext, workers)
	return int(C)
}

// communityVertices groups the current graph's vertices by community into the
// key-only CSR cv: offsets per community, sizes in the degree cursors, and
// the concatenated vertex lists. Order within a community is unspecified.
func communityVertices(cv *graph.CSR, g graph.Graph, vcom []uint32) {
	C := cv.Span()
	for c := 0; c < C; c++ {
		cv.Offsets[c] = 0
	}
	g.ForEachVertexKey(func(u uint32) {
		cv.Offsets[vcom[u]]++
	})
	cv.Offsets[C] = exclusiveScan(cv.Offsets[:C])
	for c := 0; c < C; c++ {
		cv.Degrees[c] = 0
	}
	g.ForEachVertexKey(func(u uint32) {
		cv.AddKeyAt(vcom[u], u)
	})
}

func communityVerticesParallel(cv *graph.CSR, g graph.Graph, vcom []uint32, workers int) {
	C := cv.Span()
	for c := 0; c < C; c++ {
		cv.Offsets[c] = 0
	}
	parallel.ForStatic(g.Span(), workers, func(_, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			atomic.AddUint64(&cv.Offsets[vcom[u]], 1)
		}
	})
	cv.Offsets[C] = exclusiveScan(cv.Offsets[:C])
	for c := 0; c < C; c++ {
		cv.Degrees[c] = 0
	}
	parallel.ForStatic(g.Span(), workers, func(_, lo, hi int) {
		for u := lo; u < hi; u++ {
			if !g.HasVertex(uint32(u)) {
				continue
			}
			cv.AddKeyAtAtomic(vcom[u], uint32(u))
		}
	})
}
