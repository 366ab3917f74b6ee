package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for assistant pipeline runs.
type PipelineMetrics struct {
	runsTotal         *prometheus.CounterVec
	failuresTotal     *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	settleLatency     *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ohc",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total settled pipeline runs",
		}, []string{"flow", "origin"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ohc",
			Subsystem: "pipeline",
			Name:      "generation_failures_total",
			Help:      "Generation failures replaced by fallback content",
		}, []string{"flow", "kind"}),
		generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ohc",
			Subsystem: "pipeline",
			Name:      "generation_latency_seconds",
			Help:      "Latency of the outbound generation call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
		settleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ohc",
			Subsystem: "pipeline",
			Name:      "settle_latency_seconds",
			Help:      "Time from submission to settled result, including the presentation floor",
			Buckets:   []float64{0.5, 1, 1.25, 1.5, 2, 3, 5, 10, 20, 30},
		}, []string{"flow", "origin"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.runsTotal, m.failuresTotal, m.generationLatency, m.settleLatency)
	return m
}

func (m *PipelineMetrics) ObserveGeneration(flow string, seconds float64) {
	if m == nil {
		return
	}
	m.generationLatency.WithLabelValues(flow).Observe(seconds)
}

func (m *PipelineMetrics) ObserveFailure(flow, kind string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(flow, kind).Inc()
}

func (m *PipelineMetrics) ObserveSettled(flow, origin string, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(flow, origin).Inc()
	m.settleLatency.WithLabelValues(flow, origin).Observe(seconds)
}

// IntakeMetrics counts booking and contact submissions.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ohc",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Booking and contact form submissions",
		}, []string{"form", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(form, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form, status).Inc()
}
