package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_runs_total",
			Help: "Total number of community detection runs",
		},
		[]string{"mode", "status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_run_duration_seconds",
			Help:    "Community detection run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0, 300.0},
		},
		[]string{"mode"},
	)

	r.RunPhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_run_phase_duration_seconds",
			Help:    "Run phase duration in seconds, broken out per phase",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
		[]string{"mode", "phase"},
	)

	r.RunPasses = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_run_passes",
			Help:    "Number of passes per run",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20},
		},
	)

	r.RunIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_run_iterations",
			Help:    "Cumulative local-moving iterations per run",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200},
		},
	)

	r.RunCommunities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_run_communities",
			Help:    "Number of communities found per run",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	r.RunModularity = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_run_modularity",
			Help:    "Final modularity per run",
			Buckets: []float64{-0.5, 0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	r.AffectedVertices = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_run_affected_vertices",
			Help:    "Initially affected vertices per run",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000, 10000000},
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphVertices = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_graph_vertices",
			Help: "Number of vertices in the graph being processed",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "communities_graph_edges",
			Help: "Number of directed edges in the graph being processed",
		},
	)
}
