// Package louvain implements multi-level community detection by modularity
// optimization. A run alternates a local-moving phase, which relocates each
// vertex to the neighboring community with the best modularity gain, with an
// aggregation phase that collapses each community into a super-vertex of a
// coarser graph, until the partition stops improving.
//
// The engine supports a deterministic single-threaded mode and a parallel
// mode that schedules vertex ranges dynamically over worker goroutines. The
// parallel mode does not serialize move decisions within a sweep; it still
// converges to a local modularity maximum, but the exact partition may differ
// between runs and thread counts.
package louvain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// ErrSeedLength is returned when a seed partition does not span the graph.
var ErrSeedLength = errors.New("seed partition shorter than graph span")

// MarkAffected seeds the per-vertex affected flags before the first pass.
// The static algorithm marks every vertex; incremental variants mark only
// the neighborhoods that changed.
type MarkAffected func(vaff []uint32)

func markAllAffected(vaff []uint32) {
	for i := range vaff {
		vaff[i] = 1
	}
}

// Run detects communities in x single-threaded. If q is non-nil it seeds the
// initial partition; otherwise every vertex starts in its own community.
func Run(x graph.Graph, q []uint32, o Options) (*Result, error) {
	return run(x, q, o, markAllAffected, 1)
}

// RunWith is Run with a custom affected-marking hook.
func RunWith(x graph.Graph, q []uint32, o Options, fm MarkAffected) (*Result, error) {
	return run(x, q, o, fm, 1)
}

// RunParallel detects communities using o.Workers goroutines (one per CPU
// when zero).
func RunParallel(x graph.Graph, q []uint32, o Options) (*Result, error) {
	return run(x, q, o, markAllAffected, parallel.Workers(o.Workers))
}

// RunParallelWith is RunParallel with a custom affected-marking hook.
func RunParallelWith(x graph.Graph, q []uint32, o Options, fm MarkAffected) (*Result, error) {
	return run(x, q, o, fm, parallel.Workers(o.Workers))
}

func run(x graph.Graph, q []uint32, o Options, fm MarkAffected, workers int) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	S := x.Span()
	if q != nil && len(q) < S {
		return nil, fmt.Errorf("%w: %d < %d", ErrSeedLength, len(q), S)
	}

	R := o.Resolution
	L := o.MaxIterations
	P := o.MaxPasses
	M := x.EdgeWeight() / 2

	vcom := make([]uint32, S)
	a := make([]uint32, S)
	vtot := make([]float64, S)
	ctot := newCommunityTotals(S)
	vaff := make([]uint32, S)
	bufs := make([]*scanBuffer, workers)
	for t := range bufs {
		bufs[t] = newScanBuffer(S)
	}
	els := make([]float64, workers)
	cv := graph.NewCSRKeys(S, S)
	y := graph.NewCSR(S, x.Size())
	z := graph.NewCSR(S, x.Size())

	var l, p, naff int
	var tTotal, tMark, tFirst, tMove, tAgg time.Duration

	for rep := 0; rep < o.Repeat; rep++ {
		repStart := time.Now()
		E := o.Tolerance
		fc := func(el float64, _ int) bool { return el <= E }

		clearUint32(vcom)
		clearUint32(a)
		clearUint32(vaff)
		clearFloat64(vtot)
		ctot.reset()
		cv.Respan(S)
		y.Respan(S)
		z.Respan(S)

		markStart := time.Now()
		fm(vaff)
		tMark += time.Since(markStart)
		naff = countNonZero(vaff)

		passStart := time.Now()
		firstPassEnd := passStart

		if workers > 1 {
			vertexWeightsParallel(vtot, x, workers)
			if q != nil {
				initializeFromSeedParallel(vcom, ctot, x, vtot, q, workers)
			} else {
				initializeCommunitiesParallel(vcom, ctot, x, vtot, workers)
			}
		} else {
			vertexWeights(vtot, x)
			if q != nil {
				initializeFromSeed(vcom, ctot, x, vtot, q)
			} else {
				initializeCommunities(vcom, ctot, x, vtot)
			}
		}

		var curr graph.Graph = x
		l, p = 0, 0
		for M > 0 && p < P {
			if p == 1 {
				firstPassEnd = time.Now()
			}
			span := curr.Span()
			moveStart := time.Now()
			m := localMove(curr, vcom[:span], ctot[:span], vtot[:span], vaff[:span], bufs, els, M, R, L, fc, workers)
			tMove += time.Since(moveStart)

			l += maxInt(m, 1)
			p++
			if m <= 1 || p >= P {
				break
			}

			var CN int
			if workers > 1 {
				CN = communityExistsParallel(cv.Degrees, curr, vcom[:span], workers)
			} else {
				CN = communityExists(cv.Degrees, curr, vcom[:span])
			}
			if float64(CN)/float64(curr.Order()) >= o.AggregationTolerance {
				break
			}
			if workers > 1 {
				renumberCommunitiesParallel(vcom[:span], cv.Degrees, workers)
			} else {
				renumberCommunities(vcom[:span], cv.Degrees)
			}

			// Compose the stable membership through the renumbered mapping,
			// so a's values are exactly the next level's vertex ids. The
			// terminal pass composes after the loop instead.
			if p == 1 {
				copy(a, vcom[:S])
			} else if workers > 1 {
				lookupCommunitiesParallel(a, vcom[:span], workers)
			} else {
				lookupCommunities(a, vcom[:span])
			}

			cv.Respan(CN)
			z.Respan(CN)
			if workers > 1 {
				communityVerticesParallel(cv, curr, vcom[:span], workers)
			} else {
				communityVertices(cv, curr, vcom[:span])
			}

			aggStart := time.Now()
			if workers > 1 {
				aggregateParallel(z, bufs, curr, vcom[:span], cv, workers)
			} else {
				aggregate(z, bufs[0], curr, vcom[:span], cv)
			}
			y, z = z, y
			tAgg += time.Since(aggStart)
			curr = y

			clearUint32(vcom[:CN])
			clearFloat64(vtot[:CN])
			ctot[:CN].reset()
			fillUint32(vaff[:CN], 1)
			if workers > 1 {
				vertexWeightsParallel(vtot[:CN], y, workers)
				initializeCommunitiesParallel(vcom[:CN], ctot[:CN], y, vtot[:CN], workers)
			} else {
				vertexWeights(vtot[:CN], y)
				initializeCommunities(vcom[:CN], ctot[:CN], y, vtot[:CN])
			}
			E /= o.ToleranceDecline
		}
		// Fold the terminal pass's membership into a. When the loop never
		// ran (M = 0), the seed/singleton partition stands.
		if p <= 1 {
			copy(a, vcom[:S])
		} else {
			span := curr.Span()
			if workers > 1 {
				lookupCommunitiesParallel(a, vcom[:span], workers)
			} else {
				lookupCommunities(a, vcom[:span])
			}
		}
		if p <= 1 {
			firstPassEnd = time.Now()
		}
		tFirst += firstPassEnd.Sub(passStart)
		tTotal += time.Since(repStart)
	}

	membership := make([]uint32, S)
	copy(membership, a)
	rep := time.Duration(o.Repeat)
	return &Result{
		RunID:             uuid.New().String(),
		Membership:        membership,
		Iterations:        l,
		Passes:            p,
		AffectedVertices:  naff,
		Time:              tTotal / rep,
		PreprocessingTime: tMark / rep,
		FirstPassTime:     tFirst / rep,
		LocalMoveTime:     tMove / rep,
		AggregationTime:   tAgg / rep,
	}, nil
}

func clearUint32(a []uint32) {
	for i := range a {
		a[i] = 0
	}
}

func fillUint32(a []uint32, v uint32) {
	for i := range a {
		a[i] = v
	}
}

func clearFloat64(a []float64) {
	for i := range a {
		a[i] = 0
	}
}

func countNonZero(a []uint32) int {
	n := 0
	for _, v := range a {
		if v != 0 {
			n++
		}
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
