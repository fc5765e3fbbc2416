package louvain

import (
	"sync/atomic"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// scanBuffer accumulates, for one vertex at a time, the edge weight from that
// vertex to each neighboring community. A dense weight array indexed by
// community id gives O(1) accumulation per edge; the companion touched-list
// keeps clearing proportional to the number of distinct communities seen.
//
// Between scans every weight entry is zero, so a first-time touch is detected
// by wts[c] == 0. This relies on edge weights being strictly positive, which
// is a precondition on the input graph.
type scanBuffer struct {
	keys []uint32  // communities touched, in insertion order
	wts  []float64 // accumulated weight per community id
}

func newScanBuffer(span int) *scanBuffer {
	return &scanBuffer{
		keys: make([]uint32, 0, 256),
		wts:  make([]float64, span),
	}
}

// touch adds w to community c's accumulated weight.
func (s *scanBuffer) touch(c uint32, w float64) {
	if s.wts[c] == 0 {
		s.keys = append(s.keys, c)
	}
	s.wts[c] += w
}

// clear resets all touched entries and empties the list.
func (s *scanBuffer) clear() {
	for _, c := range s.keys {
		s.wts[c] = 0
	}
	s.keys = s.keys[:0]
}

// scanCommunities accumulates u's edge weights per neighboring community.
// Self-edges are skipped unless self is set; aggregation includes them so a
// community's intra-edges become the super-vertex's self-loop.
func scanCommunities(s *scanBuffer, g graph.Graph, u uint32, vcom []uint32, self bool) {
	g.ForEachEdge(u, func(v uint32, w float64) {
		if !self && u == v {
			return
		}
		s.touch(vcom[v], w)
	})
}

// scanCommunitiesAtomic is scanCommunities for the parallel mode, where
// neighbor memberships may be rewritten concurrently. A scan may observe a
// neighbor's community before or after its move; both are tolerated.
func scanCommunitiesAtomic(s *scanBuffer, g graph.Graph, u uint32, vcom []uint32, self bool) {
	g.ForEachEdge(u, func(v uint32, w float64) {
		if !self && u == v {
			return
		}
		s.touch(atomic.LoadUint32(&vcom[v]), w)
	})
}
