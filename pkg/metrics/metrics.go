// Package metrics exposes Prometheus metrics for community detection runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
)

// Registry holds all metrics for the application
type Registry struct {
	// Run metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	RunPhaseDuration *prometheus.HistogramVec
	RunPasses        prometheus.Histogram
	RunIterations    prometheus.Histogram
	RunCommunities   prometheus.Histogram
	RunModularity    prometheus.Histogram
	AffectedVertices prometheus.Histogram

	// Graph metrics
	GraphVertices prometheus.Gauge
	GraphEdges    prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// NewRegistry creates a Registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initRunMetrics()
	r.initGraphMetrics()
	return r
}

// DefaultRegistry returns the shared Registry instance.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Handler returns an HTTP handler serving the metrics in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordRun records the outcome of a community detection run.
func (r *Registry) RecordRun(mode, status string, res *louvain.Result, communities int, modularity float64) {
	r.RunsTotal.WithLabelValues(mode, status).Inc()
	if res == nil {
		return
	}
	r.RunDuration.WithLabelValues(mode).Observe(res.Time.Seconds())
	r.RunPhaseDuration.WithLabelValues(mode, "preprocessing").Observe(res.PreprocessingTime.Seconds())
	r.RunPhaseDuration.WithLabelValues(mode, "first_pass").Observe(res.FirstPassTime.Seconds())
	r.RunPhaseDuration.WithLabelValues(mode, "local_move").Observe(res.LocalMoveTime.Seconds())
	r.RunPhaseDuration.WithLabelValues(mode, "aggregation").Observe(res.AggregationTime.Seconds())
	r.RunPasses.Observe(float64(res.Passes))
	r.RunIterations.Observe(float64(res.Iterations))
	r.RunCommunities.Observe(float64(communities))
	r.RunModularity.Observe(modularity)
	r.AffectedVertices.Observe(float64(res.AffectedVertices))
}

// SetGraphSize records the size of the graph being processed.
func (r *Registry) SetGraphSize(vertices, edges int) {
	r.GraphVertices.Set(float64(vertices))
	r.GraphEdges.Set(float64(edges))
}

// RecordRunDuration records an externally timed whole-run duration for mode.
func (r *Registry) RecordRunDuration(mode string, d time.Duration) {
	r.RunDuration.WithLabelValues(mode).Observe(d.Seconds())
}
