package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the risk and
// messaging pipeline.
type PipelineMetrics struct {
	analysesTotal  *prometheus.CounterVec
	messagesTotal  *prometheus.CounterVec
	checkinsTotal  *prometheus.CounterVec
	importedDrafts prometheus.Counter
	llmLatency     *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slimfit",
			Subsystem: "risk",
			Name:      "analyses_total",
			Help:      "Total risk analyses by resulting tier",
		}, []string{"tier"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slimfit",
			Subsystem: "messaging",
			Name:      "generated_total",
			Help:      "Total recovery messages generated by tier",
		}, []string{"tier"}),
		checkinsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slimfit",
			Subsystem: "checkin",
			Name:      "validations_total",
			Help:      "Total QR check-in validations by result",
		}, []string{"result"}),
		importedDrafts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slimfit",
			Subsystem: "agenda",
			Name:      "imported_drafts_total",
			Help:      "Total appointment drafts produced by agenda import",
		}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slimfit",
			Subsystem: "ai",
			Name:      "call_latency_seconds",
			Help:      "Latency of AI collaborator calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.analysesTotal, m.messagesTotal, m.checkinsTotal, m.importedDrafts, m.llmLatency)
	return m
}

func (m *PipelineMetrics) ObserveAnalysis(tier string) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(tier).Inc()
}

func (m *PipelineMetrics) ObserveMessage(tier string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(tier).Inc()
}

func (m *PipelineMetrics) ObserveCheckin(result string) {
	if m == nil {
		return
	}
	m.checkinsTotal.WithLabelValues(result).Inc()
}

func (m *PipelineMetrics) ObserveImportedDrafts(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.importedDrafts.Add(float64(count))
}

func (m *PipelineMetrics) ObserveLLMLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(operation).Observe(seconds)
}
