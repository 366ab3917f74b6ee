package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestPipelineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)
	m.ObserveGeneration("chat", 0.4)
	m.ObserveFailure("chat", "transport")
	m.ObserveFailure("chat", "transport")
	m.ObserveSettled("chat", "fallback", 1.01)

	if got := testutil.ToFloat64(m.failuresTotal.WithLabelValues("chat", "transport")); got != 2 {
		t.Fatalf("expected 2 failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("chat", "fallback")); got != 1 {
		t.Fatalf("expected 1 run, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var settle *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "ohc_pipeline_settle_latency_seconds" {
			settle = mf
		}
	}
	if settle == nil {
		t.Fatalf("settle histogram not registered")
	}
	if count := settle.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
		t.Fatalf("expected 1 settle sample, got %d", count)
	}
}

func TestIntakeMetricsObserve(t *testing.T) {
	m := NewIntakeMetrics(prometheus.NewRegistry())
	m.ObserveSubmission("booking", "accepted")
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("booking", "accepted")); got != 1 {
		t.Fatalf("expected 1 submission, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var p *PipelineMetrics
	p.ObserveGeneration("chat", 0.1)
	p.ObserveFailure("chat", "empty_response")
	p.ObserveSettled("chat", "generated", 1.5)

	var i *IntakeMetrics
	i.ObserveSubmission("contact", "failed")
}
