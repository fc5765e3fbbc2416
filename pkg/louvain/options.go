package louvain

import (
	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// Options configures the community detection run.
type Options struct {
	// Repeat runs the whole algorithm this many times and reports averaged
	// timings. The membership of the last run is returned.
	Repeat int `yaml:"repeat" validate:"min=1"`
	// Resolution scales the degree-penalty term of modularity; larger values
	// penalize large communities more.
	Resolution float64 `yaml:"resolution" validate:"gt=0,lte=1"`
	// Tolerance is the initial per-pass gain threshold below which the
	// local-moving phase halts.
	Tolerance float64 `yaml:"tolerance" validate:"gte=0"`
	// AggregationTolerance stops the run when the surviving-community count
	// divided by the graph order reaches this ratio, since the partition is
	// barely coarsening.
	AggregationTolerance float64 `yaml:"aggregationTolerance" validate:"gte=0,lte=1"`
	// ToleranceDecline divides the tolerance after each non-terminal pass.
	ToleranceDecline float64 `yaml:"toleranceDecline" validate:"gt=0"`
	// MaxIterations caps local-moving iterations within one pass.
	MaxIterations int `yaml:"maxIterations" validate:"min=1"`
	// MaxPasses caps the alternation of local-moving and aggregation.
	MaxPasses int `yaml:"maxPasses" validate:"min=1"`
	// Workers is the goroutine count for the parallel mode; 0 means one per
	// CPU. Ignored by Run, which is always single-threaded.
	Workers int `yaml:"workers" validate:"min=0"`
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Repeat:               1,
		Resolution:           1.0,
		Tolerance:            1e-2,
		AggregationTolerance: 0.8,
		ToleranceDecline:     100,
		MaxIterations:        20,
		MaxPasses:            10,
	}
}

// Validate checks the options against their allowed ranges.
func (o Options) Validate() error {
	return validate.Struct(o)
}
