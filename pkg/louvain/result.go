package louvain

import "time"

// Result carries the outcome of a community detection run.
type Result struct {
	// RunID identifies this run in logs, metrics and snapshots.
	RunID string
	// Membership maps every original vertex id to its final community id,
	// a vertex id of the last pass's graph.
	Membership []uint32
	// Iterations is the cumulative local-moving iteration count over all
	// passes; each pass contributes at least one.
	Iterations int
	// Passes is the number of local-move/aggregate cycles performed.
	Passes int
	// AffectedVertices is the number of vertices the preprocessing hook
	// marked for the first pass.
	AffectedVertices int

	// Time is the wall time of the whole run. With Repeat > 1 all timings
	// are averages over the repetitions.
	Time time.Duration
	// PreprocessingTime is the time spent in the affected-marking hook.
	PreprocessingTime time.Duration
	// FirstPassTime is the time from initialization to the start of the
	// second pass.
	FirstPassTime time.Duration
	// LocalMoveTime is the time spent in the local-moving phase, all passes.
	LocalMoveTime time.Duration
	// AggregationTime is the time spent building coarser graphs, all passes.
	AggregationTime time.Duration
}

// CommunityCount returns the number of distinct community ids in Membership.
func (r *Result) CommunityCount() int {
	seen := make(map[uint32]struct{})
	for _, c := range r.Membership {
		seen[c] = struct{}{}
	}
	return len(seen)
}
