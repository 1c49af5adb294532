package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for the Meta webhook pipeline.
type WebhookMetrics struct {
	eventsTotal     *prometheus.CounterVec
	leadsTotal      *prometheus.CounterVec
	processingDelay *prometheus.HistogramVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadhook",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total webhook events by channel, kind and outcome",
		}, []string{"channel", "kind", "status"}),
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadhook",
			Subsystem: "leads",
			Name:      "captured_total",
			Help:      "Total leads captured by source",
		}, []string{"source"}),
		processingDelay: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadhook",
			Subsystem: "webhook",
			Name:      "processing_seconds",
			Help:      "Latency of post-acknowledgment event processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel", "kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal, m.leadsTotal, m.processingDelay)
	return m
}

func (m *WebhookMetrics) ObserveEvent(channel, kind, status string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(channel, kind, status).Inc()
}

func (m *WebhookMetrics) ObserveLead(source string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(source).Inc()
}

func (m *WebhookMetrics) ObserveProcessing(channel, kind string, seconds float64) {
	if m == nil {
		return
	}
	m.processingDelay.WithLabelValues(channel, kind).Observe(seconds)
}
