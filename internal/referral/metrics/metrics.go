// Package metrics exposes Prometheus instrumentation for the referral
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the referral pipeline's Prometheus collectors.
type Metrics struct {
	ConversionsTotal   prometheus.Counter
	RejectionsTotal    *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	LinksIssuedTotal   prometheus.Counter
}

// New creates and registers all referral metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a specific registerer. Tests pass a
// fresh registry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "refgate_conversions_total",
			Help: "Total number of successfully converted referrals",
		}),
		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "refgate_conversion_rejections_total",
			Help: "Total number of rejected conversion attempts by reason",
		}, []string{"reason"}),
		ConversionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "refgate_conversion_duration_seconds",
			Help:    "End-to-end duration of conversion attempts",
			Buckets: prometheus.DefBuckets,
		}),
		LinksIssuedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "refgate_referral_links_issued_total",
			Help: "Total number of referral deep links issued",
		}),
	}
}

// RecordConversion observes one successful conversion.
func (m *Metrics) RecordConversion(duration time.Duration) {
	if m == nil {
		return
	}
	m.ConversionsTotal.Inc()
	m.ConversionDuration.Observe(duration.Seconds())
}

// RecordRejection observes one rejected attempt.
func (m *Metrics) RecordRejection(reason string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
	m.ConversionDuration.Observe(duration.Seconds())
}

// RecordLinkIssued observes one issued deep link.
func (m *Metrics) RecordLinkIssued() {
	if m == nil {
		return
	}
	m.LinksIssuedTotal.Inc()
}
