package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify a sample of the metrics is initialized
	if r.RunsTotal == nil {
		t.Error("RunsTotal not initialized")
	}
	if r.RunDuration == nil {
		t.Error("RunDuration not initialized")
	}
	if r.RunPhaseDuration == nil {
		t.Error("RunPhaseDuration not initialized")
	}
	if r.RunPasses == nil {
		t.Error("RunPasses not initialized")
	}
	if r.GraphVertices == nil {
		t.Error("GraphVertices not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	res := &louvain.Result{
		RunID:             "test-run",
		Membership:        []uint32{0, 0, 1},
		Iterations:        5,
		Passes:            2,
		AffectedVertices:  3,
		Time:              100 * time.Millisecond,
		PreprocessingTime: time.Millisecond,
		FirstPassTime:     40 * time.Millisecond,
		LocalMoveTime:     80 * time.Millisecond,
		AggregationTime:   10 * time.Millisecond,
	}
	r.RecordRun("serial", "ok", res, 2, 0.35)

	counter, err := r.RunsTotal.GetMetricWithLabelValues("serial", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Counter value = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordRun_ErrorWithoutResult(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("parallel", "error", nil, 0, 0)

	counter, err := r.RunsTotal.GetMetricWithLabelValues("parallel", "error")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Counter value = %v, want 1", metric.Counter.GetValue())
	}
}

func TestSetGraphSize(t *testing.T) {
	r := NewRegistry()
	r.SetGraphSize(1000, 5000)

	var metric dto.Metric
	if err := r.GraphVertices.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 1000 {
		t.Errorf("GraphVertices = %v, want 1000", metric.Gauge.GetValue())
	}
	if err := r.GraphEdges.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 5000 {
		t.Errorf("GraphEdges = %v, want 5000", metric.Gauge.GetValue())
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	if r.Handler() == nil {
		t.Error("Handler() returned nil")
	}
}
