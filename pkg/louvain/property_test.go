package louvain

import (
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// randomGraph derives a graph from a list of integer codes: each code picks
// an undirected edge between two of n vertices.
func randomGraph(n int, codes []int) *graph.CSR {
	b := graph.NewBuilder()
	for u := 0; u < n; u++ {
		b.AddVertex(uint32(u))
	}
	for _, code := range codes {
		u := uint32(code % n)
		v := uint32((code / n) % n)
		// Builder sums duplicates, so repeated codes just grow weights.
		_ = b.AddUndirectedEdge(u, v, 1.0)
	}
	return b.Build()
}

// TestLouvainInvariants uses property-based testing to verify the invariants
// that must hold for any input graph.
func TestLouvainInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	graphGen := gopter.CombineGens(
		gen.IntRange(2, 24),
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	)

	// Property 1: the result's community ids stay inside the id space and
	// the run respects its caps.
	properties.Property("membership ids are valid", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			o := DefaultOptions()
			result, err := Run(g, nil, o)
			if err != nil {
				return false
			}
			if len(result.Membership) != g.Span() {
				return false
			}
			for _, c := range result.Membership {
				if int(c) >= g.Span() {
					return false
				}
			}
			return result.Passes <= o.MaxPasses
		},
		graphGen,
	))

	// Property 2: local moving never loses weight; community totals stay
	// consistent with the vertex totals after a full sweep.
	properties.Property("community totals remain consistent", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			S := g.Span()
			vcom := make([]uint32, S)
			vtot := make([]float64, S)
			ctot := newCommunityTotals(S)
			vaff := make([]uint32, S)
			vertexWeights(vtot, g)
			initializeCommunities(vcom, ctot, g, vtot)
			for i := range vaff {
				vaff[i] = 1
			}
			M := g.EdgeWeight() / 2
			if M == 0 {
				return true
			}
			moveIteration(g, vcom, ctot, vtot, vaff, newScanBuffer(S), M, 1.0)

			want := make([]float64, S)
			var sumV float64
			g.ForEachVertexKey(func(u uint32) {
				want[vcom[u]] += vtot[u]
				sumV += vtot[u]
			})
			for c := 0; c < S; c++ {
				if math.Abs(ctot.get(uint32(c))-want[c]) > 1e-9 {
					return false
				}
			}
			return math.Abs(sumV-2*M) < 1e-9 && math.Abs(ctot.sum()-2*M) < 1e-9
		},
		graphGen,
	))

	// Property 3: the detected partition never scores below the singleton
	// partition it starts from.
	properties.Property("modularity does not decrease", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			singleton := make([]uint32, g.Span())
			for i := range singleton {
				singleton[i] = uint32(i)
			}
			result, err := Run(g, nil, DefaultOptions())
			if err != nil {
				return false
			}
			q0 := Modularity(g, singleton, 1.0)
			q1 := Modularity(g, result.Membership, 1.0)
			return q1 >= q0-1e-9 && q1 >= -0.5-1e-9 && q1 <= 1.0+1e-9
		},
		graphGen,
	))

	// Property 4: single-threaded runs are deterministic.
	properties.Property("serial mode is deterministic", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			r1, err1 := Run(g, nil, DefaultOptions())
			r2, err2 := Run(g, nil, DefaultOptions())
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(r1.Membership, r2.Membership) &&
				r1.Iterations == r2.Iterations && r1.Passes == r2.Passes
		},
		graphGen,
	))

	// Property 5: seeding a run with a previous result never lowers the
	// modularity.
	properties.Property("seeded rerun does not regress", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			first, err := Run(g, nil, DefaultOptions())
			if err != nil {
				return false
			}
			second, err := Run(g, first.Membership, DefaultOptions())
			if err != nil {
				return false
			}
			q1 := Modularity(g, first.Membership, 1.0)
			q2 := Modularity(g, second.Membership, 1.0)
			return q2 >= q1-1e-9
		},
		graphGen,
	))

	// Property 6: the parallel mode lands within a small band of the serial
	// modularity even when the partitions differ.
	properties.Property("parallel mode tracks serial modularity", prop.ForAll(
		func(vals []interface{}) bool {
			n := vals[0].(int)
			codes := vals[1].([]int)
			g := randomGraph(n, codes)
			o := DefaultOptions()
			serial, err := Run(g, nil, o)
			if err != nil {
				return false
			}
			o.Workers = 4
			par, err := RunParallel(g, nil, o)
			if err != nil {
				return false
			}
			qs := Modularity(g, serial.Membership, 1.0)
			qp := Modularity(g, par.Membership, 1.0)
			return math.Abs(qs-qp) <= 0.1
		},
		graphGen,
	))

	properties.TestingRun(t)
}
