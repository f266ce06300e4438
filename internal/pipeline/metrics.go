package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the outcome of a run in a private Prometheus registry so a
// batch run can leave a textfile for node_exporter.
type Metrics struct {
	registry    *prometheus.Registry
	documents   prometheus.Counter
	answers     *prometheus.CounterVec
	respondents prometheus.Gauge
	lastRun     prometheus.Gauge
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "packet_documents_total",
			Help: "Source documents parsed.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "packet_answers_total",
			Help: "Answers examined, by collation outcome.",
		}, []string{"outcome"}),
		respondents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "packet_respondents",
			Help: "Respondents with at least one collated answer.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "packet_last_run_timestamp_seconds",
			Help: "Unix time the last successful run finished.",
		}),
	}
	m.registry.MustRegister(m.documents, m.answers, m.respondents, m.lastRun)
	return m
}

// Observe adds a finished run to the metrics.
func (m *Metrics) Observe(res *Result) {
	m.documents.Add(float64(len(res.Labels)))
	m.answers.WithLabelValues("kept").Add(float64(res.Stats.Kept))
	m.answers.WithLabelValues("excluded_respondent").Add(float64(res.Stats.ExcludedRespondent))
	m.answers.WithLabelValues("excluded_answer").Add(float64(res.Stats.ExcludedAnswer))
	m.respondents.Set(float64(len(res.Reports)))
	if !res.FinishedAt.IsZero() {
		m.lastRun.Set(float64(res.FinishedAt.Unix()))
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes the metrics in text exposition format to path.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
