package louvain

import (
	"sync/atomic"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// chooseCommunity picks the scanned community with the highest positive
// modularity delta for moving u out of its current community d. Ties keep the
// community scanned first. A zero gain means no admissible move.
func chooseCommunity(u uint32, vcom []uint32, vtot []float64, ctot communityTotals, s *scanBuffer, M, R float64) (uint32, float64) {
	d := vcom[u]
	var cmax uint32
	var emax float64
	ctotD := ctot.get(d)
	for _, c := range s.keys {
		if c == d {
			continue
		}
		e := DeltaModularity(s.wts[c], s.wts[d], vtot[u], ctot.get(c), ctotD, M, R)
		if e > emax {
			emax, cmax = e, c
		}
	}
	return cmax, emax
}

func chooseCommunityAtomic(u uint32, vcom []uint32, vtot []float64, ctot communityTotals, s *scanBuffer, M, R float64) (uint32, float64) {
	d := atomic.LoadUint32(&vcom[u])
	var cmax uint32
	var emax float64
	ctotD := ctot.atomicGet(d)
	for _, c := range s.keys {
		if c == d {
			continue
		}
		e := DeltaModularity(s.wts[c], s.wts[d], vtot[u], ctot.atomicGet(c), ctotD, M, R)
		if e > emax {
			emax, cmax = e, c
		}
	}
	return cmax, emax
}

// moveIteration runs one local-moving sweep over all affected vertices of g,
// relocating each to its best neighboring community. Returns the summed gain
// of the accepted moves.
func moveIteration(g graph.Graph, vcom []uint32, ctot communityTotals, vtot []float64, vaff []uint32, s *scanBuffer, M, R float64) float64 {
	var el float64
	g.ForEachVertexKey(func(u uint32) {
		if vaff[u] == 0 {
			return
		}
		s.clear()
		scanCommunities(s, g, u, vcom, false)
		c, e := chooseCommunity(u, vcom, vtot, ctot, s, M, R)
		if e > 0 {
			d := vcom[u]
			ctot.add(d, -vtot[u])
			ctot.add(c, vtot[u])
			vcom[u] = c
			g.ForEachEdgeKey(u, func(v uint32) {
				vaff[v] = 1
			})
			el += e
		}
		vaff[u] = 0
	})
	return el
}

// moveIterationParallel is moveIteration over worker goroutines claiming
// vertex ranges dynamically. Community totals move under compare-and-swap,
// membership and affected flags under atomic loads and stores; move decisions
// within one sweep are not serialized, so a vertex may decide against a
// neighbor's pre- or post-move community. The summed gain is reduced across
// workers.
func moveIterationParallel(g graph.Graph, vcom []uint32, ctot communityTotals, vtot []float64, vaff []uint32, bufs []*scanBuffer, els []float64, M, R float64, workers int) float64 {
	for t := range els {
		els[t] = 0
	}
	parallel.ForDynamic(g.Span(), workers, parallel.DefaultChunk, func(worker, lo, hi int) {
		s := bufs[worker]
		for i := lo; i < hi; i++ {
			u := uint32(i)
			if !g.HasVertex(u) {
				continue
			}
			if atomic.LoadUint32(&vaff[u]) == 0 {
				continue
			}
			s.clear()
			scanCommunitiesAtomic(s, g, u, vcom, false)
			c, e := chooseCommunityAtomic(u, vcom, vtot, ctot, s, M, R)
			if e > 0 {
				d := atomic.LoadUint32(&vcom[u])
				ctot.atomicAdd(d, -vtot[u])
				ctot.atomicAdd(c, vtot[u])
				atomic.StoreUint32(&vcom[u], c)
				g.ForEachEdgeKey(u, func(v uint32) {
					atomic.StoreUint32(&vaff[v], 1)
				})
				els[worker] += e
			}
			atomic.StoreUint32(&vaff[u], 0)
		}
	})
	var el float64
	for _, e := range els {
		el += e
	}
	return el
}

// convergedFn reports whether the local-moving phase should stop. It is
// called once per completed iteration with the iteration's summed gain and
// the 0-based index of the iteration just finished.
type convergedFn func(el float64, iteration int) bool

// localMove iterates the move kernel until fc reports convergence or L
// iterations have run. Returns the iteration count, or 0 when the phase was a
// no-op (a single gainless iteration).
func localMove(g graph.Graph, vcom []uint32, ctot communityTotals, vtot []float64, vaff []uint32, bufs []*scanBuffer, els []float64, M, R float64, L int, fc convergedFn, workers int) int {
	l := 0
	var el float64
	for l < L {
		if workers > 1 {
			el = moveIterationParallel(g, vcom, ctot, vtot, vaff, bufs, els, M, R, workers)
		} else {
			el = moveIteration(g, vcom, ctot, vtot, vaff, bufs[0], M, R)
		}
		done := fc(el, l)
		l++
		if done {
			break
		}
	}
	if l > 1 || el != 0 {
		return l
	}
	return 0
}
